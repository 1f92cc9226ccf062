package domain

import "time"

// TicketCategory classifies what a ticket is about.
type TicketCategory string

const (
	CategoryBilling   TicketCategory = "billing"
	CategoryTechnical TicketCategory = "technical"
	CategoryAccount   TicketCategory = "account"
	CategoryGeneral   TicketCategory = "general"
)

// TicketPriority enumerates handling urgency.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// TicketSentiment captures the tone detected in a ticket's text.
type TicketSentiment string

const (
	SentimentCalm       TicketSentiment = "calm"
	SentimentNeutral    TicketSentiment = "neutral"
	SentimentFrustrated TicketSentiment = "frustrated"
	SentimentAngry      TicketSentiment = "angry"
)

// Urgency score bounds and server-side defaults.
const (
	UrgencyScoreMin     = 0
	UrgencyScoreMax     = 100
	DefaultUrgencyScore = 50

	DefaultSentiment = SentimentNeutral

	TitleMaxLength = 200
)

var (
	categoryValues  = []TicketCategory{CategoryBilling, CategoryTechnical, CategoryAccount, CategoryGeneral}
	priorityValues  = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	statusValues    = []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
	sentimentValues = []TicketSentiment{SentimentCalm, SentimentNeutral, SentimentFrustrated, SentimentAngry}
)

// Valid reports whether the category is one of the accepted values.
func (c TicketCategory) Valid() bool {
	for _, candidate := range categoryValues {
		if c == candidate {
			return true
		}
	}
	return false
}

// Valid reports whether the priority is one of the accepted values.
func (p TicketPriority) Valid() bool {
	for _, candidate := range priorityValues {
		if p == candidate {
			return true
		}
	}
	return false
}

// Valid reports whether the status is one of the accepted values.
func (s TicketStatus) Valid() bool {
	for _, candidate := range statusValues {
		if s == candidate {
			return true
		}
	}
	return false
}

// Valid reports whether the sentiment is one of the accepted values.
func (s TicketSentiment) Valid() bool {
	for _, candidate := range sentimentValues {
		if s == candidate {
			return true
		}
	}
	return false
}

// CategoryValues returns the accepted wire values in declaration order.
func CategoryValues() []string {
	out := make([]string, len(categoryValues))
	for i, v := range categoryValues {
		out[i] = string(v)
	}
	return out
}

// PriorityValues returns the accepted wire values in declaration order.
func PriorityValues() []string {
	out := make([]string, len(priorityValues))
	for i, v := range priorityValues {
		out[i] = string(v)
	}
	return out
}

// SentimentValues returns the accepted wire values in declaration order.
func SentimentValues() []string {
	out := make([]string, len(sentimentValues))
	for i, v := range sentimentValues {
		out[i] = string(v)
	}
	return out
}

// ValidUrgencyScore reports whether the score sits inside the accepted range.
func ValidUrgencyScore(score int) bool {
	return score >= UrgencyScoreMin && score <= UrgencyScoreMax
}

// Ticket is the aggregate for support requests. Sentiment and UrgencyScore
// are computed server-side from the ticket text and are never client-writable.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	Category     TicketCategory
	Priority     TicketPriority
	Status       TicketStatus
	Sentiment    TicketSentiment
	UrgencyScore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
