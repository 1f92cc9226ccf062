package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maher4real/support-ticket-system/internal/cache"
	"github.com/maher4real/support-ticket-system/internal/domain"
	"github.com/maher4real/support-ticket-system/internal/events"
	"github.com/maher4real/support-ticket-system/internal/llm"
	"github.com/maher4real/support-ticket-system/internal/repository"
	apperrors "github.com/maher4real/support-ticket-system/pkg/util"
)

// TicketService coordinates ticket workflows and the AI side-channel.
type TicketService struct {
	tickets    repository.TicketRepository
	scorer     llm.Scorer
	stats      cache.StatsCache
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Scorer     llm.Scorer
	StatsCache cache.StatsCache
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. Status defaults to
// open when empty.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Status      domain.TicketStatus
}

// TicketUpdateInput describes a partial update; nil fields are left as-is.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Category    *domain.TicketCategory
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Categories []domain.TicketCategory
	Priorities []domain.TicketPriority
	Statuses   []domain.TicketStatus
	SearchTerm *string
	Ascending  bool
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		scorer:     deps.Scorer,
		stats:      deps.StatsCache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates the payload, scores the AI signals, and persists a
// new ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"allowed": domain.CategoryValues()})
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"allowed": domain.PriorityValues()})
	}
	status := input.Status
	if status == "" {
		status = domain.StatusOpen
	} else if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}

	signals := s.scoreSignals(ctx, title, description)
	ticket := &domain.Ticket{
		Title:        title,
		Description:  description,
		Category:     input.Category,
		Priority:     input.Priority,
		Status:       status,
		Sentiment:    signals.Sentiment,
		UrgencyScore: signals.UrgencyScore,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:        ticket.Title,
			Category:     ticket.Category,
			Priority:     ticket.Priority,
			Sentiment:    ticket.Sentiment,
			UrgencyScore: ticket.UrgencyScore,
		},
	})
	s.invalidateStats(ctx)
	return ticket, nil
}

// UpdateTicket applies a partial update. The AI signals are recomputed only
// when the payload carries title or description, regardless of whether the
// value actually changed.
func (s *TicketService) UpdateTicket(ctx context.Context, id int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := []string{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		ticket.Title = title
		changed = append(changed, "title")
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("description is required", nil)
		}
		ticket.Description = description
		changed = append(changed, "description")
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperrors.NewValidationError("invalid category", map[string]any{"allowed": domain.CategoryValues()})
		}
		ticket.Category = *input.Category
		changed = append(changed, "category")
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"allowed": domain.PriorityValues()})
		}
		ticket.Priority = *input.Priority
		changed = append(changed, "priority")
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", nil)
		}
		ticket.Status = *input.Status
		changed = append(changed, "status")
	}

	rescored := input.Title != nil || input.Description != nil
	if rescored {
		signals := s.scoreSignals(ctx, ticket.Title, ticket.Description)
		ticket.Sentiment = signals.Sentiment
		ticket.UrgencyScore = signals.UrgencyScore
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			ChangedFields: changed,
			Rescored:      rescored,
			Status:        ticket.Status,
			Category:      ticket.Category,
			Priority:      ticket.Priority,
			Sentiment:     ticket.Sentiment,
			UrgencyScore:  ticket.UrgencyScore,
		},
	})
	s.invalidateStats(ctx)
	return ticket, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	for _, category := range filter.Categories {
		if !category.Valid() {
			return nil, apperrors.NewValidationError("invalid category filter", map[string]any{"allowed": domain.CategoryValues()})
		}
	}
	for _, priority := range filter.Priorities {
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority filter", map[string]any{"allowed": domain.PriorityValues()})
		}
	}
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status filter", nil)
		}
	}
	return s.tickets.List(ctx, repository.TicketFilter{
		Categories: filter.Categories,
		Priorities: filter.Priorities,
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Ascending:  filter.Ascending,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// TicketStats returns the aggregate counters, served from cache when fresh.
func (s *TicketService) TicketStats(ctx context.Context) (*domain.TicketStats, error) {
	if s.stats != nil {
		if cached, ok := s.stats.Get(ctx); ok {
			return cached, nil
		}
	}
	stats, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.Set(ctx, stats)
	}
	return stats, nil
}

// ClassifyDescription suggests category/priority for free-form text. Never
// fails; the AI layer answers with its defaults on any trouble.
func (s *TicketService) ClassifyDescription(ctx context.Context, description string) llm.Classification {
	if s.scorer == nil {
		return llm.DefaultClassification()
	}
	return s.scorer.Classify(ctx, description)
}

// SuggestTitle proposes a title for free-form text. Never fails.
func (s *TicketService) SuggestTitle(ctx context.Context, description string) string {
	if s.scorer == nil {
		return llm.FallbackTitle(description)
	}
	return s.scorer.SuggestTitle(ctx, description)
}

func (s *TicketService) scoreSignals(ctx context.Context, title, description string) llm.Signals {
	if s.scorer == nil {
		return llm.DefaultSignals()
	}
	return s.scorer.ScoreSignals(ctx, title, description)
}

func (s *TicketService) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateTitle(title string) error {
	if title == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	if len([]rune(title)) > domain.TitleMaxLength {
		return apperrors.NewValidationError("title must be 200 characters or fewer", nil)
	}
	return nil
}
