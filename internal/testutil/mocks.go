package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/maher4real/support-ticket-system/internal/domain"
	"github.com/maher4real/support-ticket-system/internal/llm"
	"github.com/maher4real/support-ticket-system/internal/repository"
)

// MockTicketRepo is a mock of repository.TicketRepository.
type MockTicketRepo struct {
	mock.Mock
}

func (m *MockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepo) Stats(ctx context.Context) (*domain.TicketStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketStats), args.Error(1)
}

// MockScorer is a mock of llm.Scorer.
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Classify(ctx context.Context, description string) llm.Classification {
	args := m.Called(ctx, description)
	return args.Get(0).(llm.Classification)
}

func (m *MockScorer) SuggestTitle(ctx context.Context, description string) string {
	args := m.Called(ctx, description)
	return args.String(0)
}

func (m *MockScorer) ScoreSignals(ctx context.Context, title, description string) llm.Signals {
	args := m.Called(ctx, title, description)
	return args.Get(0).(llm.Signals)
}

// MockStatsCache is a mock of cache.StatsCache.
type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context) (*domain.TicketStats, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.TicketStats), args.Bool(1)
}

func (m *MockStatsCache) Set(ctx context.Context, stats *domain.TicketStats) {
	m.Called(ctx, stats)
}

func (m *MockStatsCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}
