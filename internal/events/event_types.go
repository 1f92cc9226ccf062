package events

import (
	"time"

	"github.com/maher4real/support-ticket-system/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title        string                 `json:"title"`
	Category     domain.TicketCategory  `json:"category"`
	Priority     domain.TicketPriority  `json:"priority"`
	Sentiment    domain.TicketSentiment `json:"sentiment"`
	UrgencyScore int                    `json:"urgency_score"`
}

// TicketUpdatedPayload payload. Rescored reports whether the AI signals were
// recomputed as part of the update.
type TicketUpdatedPayload struct {
	ChangedFields []string               `json:"changed_fields"`
	Rescored      bool                   `json:"rescored"`
	Status        domain.TicketStatus    `json:"status"`
	Category      domain.TicketCategory  `json:"category"`
	Priority      domain.TicketPriority  `json:"priority"`
	Sentiment     domain.TicketSentiment `json:"sentiment"`
	UrgencyScore  int                    `json:"urgency_score"`
}
