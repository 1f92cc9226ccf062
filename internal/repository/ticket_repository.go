package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maher4real/support-ticket-system/internal/domain"
)

// TicketFilter captures listing parameters. All clauses combine with AND.
type TicketFilter struct {
	Categories []domain.TicketCategory
	Priorities []domain.TicketPriority
	Statuses   []domain.TicketStatus
	SearchTerm *string
	Ascending  bool
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Stats(ctx context.Context) (*domain.TicketStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category, priority, status, sentiment, urgency_score)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.Sentiment,
		ticket.UrgencyScore,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, category=$3, priority=$4,
            status=$5, sentiment=$6, urgency_score=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.Sentiment,
		ticket.UrgencyScore,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, category, priority, status, sentiment, urgency_score, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Sentiment,
		&ticket.UrgencyScore,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, title, description, category, priority, status, sentiment, urgency_score, created_at, updated_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at %s LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), order, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Stats(ctx context.Context) (*domain.TicketStats, error) {
	const aggregateQuery = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'open'),
               COUNT(*) FILTER (WHERE priority = 'low'),
               COUNT(*) FILTER (WHERE priority = 'medium'),
               COUNT(*) FILTER (WHERE priority = 'high'),
               COUNT(*) FILTER (WHERE priority = 'critical'),
               COUNT(*) FILTER (WHERE category = 'billing'),
               COUNT(*) FILTER (WHERE category = 'technical'),
               COUNT(*) FILTER (WHERE category = 'account'),
               COUNT(*) FILTER (WHERE category = 'general'),
               COUNT(*) FILTER (WHERE sentiment = 'calm'),
               COUNT(*) FILTER (WHERE sentiment = 'neutral'),
               COUNT(*) FILTER (WHERE sentiment = 'frustrated'),
               COUNT(*) FILTER (WHERE sentiment = 'angry'),
               COALESCE(AVG(urgency_score)::float8, 0)
        FROM tickets`

	var stats domain.TicketStats
	if err := r.pool.QueryRow(ctx, aggregateQuery).Scan(
		&stats.TotalTickets,
		&stats.OpenTickets,
		&stats.Priorities.Low,
		&stats.Priorities.Medium,
		&stats.Priorities.High,
		&stats.Priorities.Critical,
		&stats.Categories.Billing,
		&stats.Categories.Technical,
		&stats.Categories.Account,
		&stats.Categories.General,
		&stats.Sentiments.Calm,
		&stats.Sentiments.Neutral,
		&stats.Sentiments.Frustrated,
		&stats.Sentiments.Angry,
		&stats.AvgUrgencyScore,
	); err != nil {
		return nil, err
	}

	// Average of per-calendar-day counts, not total divided by span.
	const dailyAvgQuery = `
        SELECT COALESCE(AVG(ticket_count)::float8, 0)
        FROM (
            SELECT COUNT(*) AS ticket_count
            FROM tickets
            GROUP BY created_at::date
        ) AS daily`
	if err := r.pool.QueryRow(ctx, dailyAvgQuery).Scan(&stats.AvgTicketsPerDay); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.Sentiment,
			&ticket.UrgencyScore,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
