package domain

// PriorityBreakdown counts tickets per priority.
type PriorityBreakdown struct {
	Low      int64
	Medium   int64
	High     int64
	Critical int64
}

// CategoryBreakdown counts tickets per category.
type CategoryBreakdown struct {
	Billing   int64
	Technical int64
	Account   int64
	General   int64
}

// SentimentBreakdown counts tickets per detected sentiment.
type SentimentBreakdown struct {
	Calm       int64
	Neutral    int64
	Frustrated int64
	Angry      int64
}

// TicketStats aggregates dashboard counters over the whole ticket table.
// Averages are 0.0 when no tickets exist.
type TicketStats struct {
	TotalTickets     int64
	OpenTickets      int64
	AvgTicketsPerDay float64
	Priorities       PriorityBreakdown
	Categories       CategoryBreakdown
	Sentiments       SentimentBreakdown
	AvgUrgencyScore  float64
}
