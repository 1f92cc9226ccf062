package dto

import (
	"time"

	"github.com/maher4real/support-ticket-system/internal/domain"
)

// CreateTicketRequest payload. Status is optional and defaults to open.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
}

// UpdateTicketRequest payload; absent fields are left untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Category    *domain.TicketCategory `json:"category"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      *domain.TicketStatus   `json:"status"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID           int64                  `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Category     domain.TicketCategory  `json:"category"`
	Priority     domain.TicketPriority  `json:"priority"`
	Status       domain.TicketStatus    `json:"status"`
	Sentiment    domain.TicketSentiment `json:"sentiment"`
	UrgencyScore int                    `json:"urgency_score"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ClassifyRequest payload for the classification side-channel.
type ClassifyRequest struct {
	Description string `json:"description"`
}

// ClassifyResponse carries the suggested classification.
type ClassifyResponse struct {
	SuggestedCategory domain.TicketCategory `json:"suggested_category"`
	SuggestedPriority domain.TicketPriority `json:"suggested_priority"`
}

// SuggestTitleRequest payload for the title side-channel.
type SuggestTitleRequest struct {
	Description string `json:"description"`
}

// SuggestTitleResponse carries the suggested title.
type SuggestTitleResponse struct {
	SuggestedTitle string `json:"suggested_title"`
}

// PriorityBreakdownResponse counts per priority.
type PriorityBreakdownResponse struct {
	Low      int64 `json:"low"`
	Medium   int64 `json:"medium"`
	High     int64 `json:"high"`
	Critical int64 `json:"critical"`
}

// CategoryBreakdownResponse counts per category.
type CategoryBreakdownResponse struct {
	Billing   int64 `json:"billing"`
	Technical int64 `json:"technical"`
	Account   int64 `json:"account"`
	General   int64 `json:"general"`
}

// SentimentBreakdownResponse counts per sentiment.
type SentimentBreakdownResponse struct {
	Calm       int64 `json:"calm"`
	Neutral    int64 `json:"neutral"`
	Frustrated int64 `json:"frustrated"`
	Angry      int64 `json:"angry"`
}

// TicketStatsResponse is the aggregate stats payload.
type TicketStatsResponse struct {
	TotalTickets       int64                      `json:"total_tickets"`
	OpenTickets        int64                      `json:"open_tickets"`
	AvgTicketsPerDay   float64                    `json:"avg_tickets_per_day"`
	PriorityBreakdown  PriorityBreakdownResponse  `json:"priority_breakdown"`
	CategoryBreakdown  CategoryBreakdownResponse  `json:"category_breakdown"`
	SentimentBreakdown SentimentBreakdownResponse `json:"sentiment_breakdown"`
	AvgUrgencyScore    float64                    `json:"avg_urgency_score"`
}
