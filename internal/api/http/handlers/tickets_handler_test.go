package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	httptransport "github.com/maher4real/support-ticket-system/internal/api/http"
	"github.com/maher4real/support-ticket-system/internal/api/http/handlers"
	"github.com/maher4real/support-ticket-system/internal/domain"
	"github.com/maher4real/support-ticket-system/internal/llm"
	"github.com/maher4real/support-ticket-system/internal/observability"
	"github.com/maher4real/support-ticket-system/internal/persistence"
	"github.com/maher4real/support-ticket-system/internal/repository"
	"github.com/maher4real/support-ticket-system/internal/service"
	"github.com/maher4real/support-ticket-system/internal/testutil"
)

func newTestApp(repo repository.TicketRepository, scorer llm.Scorer) *fiber.App {
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repo,
		Scorer:     scorer,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler("support-ticket-system", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Tickets: handlers.NewTicketsHandler(ticketService),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	assert.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		assert.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestCreateTicketReturnsCreated(t *testing.T) {
	repo := &testutil.MockTicketRepo{}
	scorer := &testutil.MockScorer{}
	app := newTestApp(repo, scorer)

	scorer.On("ScoreSignals", mock.Anything, "Login broken", "Cannot log in").
		Return(llm.Signals{Sentiment: domain.SentimentFrustrated, UrgencyScore: 75}).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Ticket).ID = 11
		}).Return(nil).Once()

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/",
		`{"title":"Login broken","description":"Cannot log in","category":"technical","priority":"high"}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(11), data["id"])
	assert.Equal(t, "open", data["status"])
	assert.Equal(t, "frustrated", data["sentiment"])
	assert.Equal(t, float64(75), data["urgency_score"])
	repo.AssertExpectations(t)
}

func TestCreateTicketValidationError(t *testing.T) {
	app := newTestApp(&testutil.MockTicketRepo{}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/",
		`{"title":"","description":"d","category":"technical","priority":"high"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func TestListTicketsParsesFilters(t *testing.T) {
	repo := &testutil.MockTicketRepo{}
	app := newTestApp(repo, nil)

	var captured repository.TicketFilter
	repo.On("List", mock.Anything, mock.AnythingOfType("repository.TicketFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repository.TicketFilter)
		}).Return([]domain.Ticket{}, nil).Once()

	resp, body := doJSON(t, app, http.MethodGet,
		"/api/tickets/?category=billing,technical&status=open&search=refund&ordering=created_at&page=2&page_size=10", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, []domain.TicketCategory{domain.CategoryBilling, domain.CategoryTechnical}, captured.Categories)
	assert.Equal(t, []domain.TicketStatus{domain.StatusOpen}, captured.Statuses)
	assert.Equal(t, "refund", *captured.SearchTerm)
	assert.True(t, captured.Ascending)
	assert.Equal(t, 10, captured.Limit)
	assert.Equal(t, 10, captured.Offset)
}

func TestGetTicketNotFound(t *testing.T) {
	repo := &testutil.MockTicketRepo{}
	app := newTestApp(repo, nil)

	repo.On("GetByID", mock.Anything, int64(42)).Return(nil, pgx.ErrNoRows).Once()

	resp, body := doJSON(t, app, http.MethodGet, "/api/tickets/42", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestGetTicketRejectsBadID(t *testing.T) {
	app := newTestApp(&testutil.MockTicketRepo{}, nil)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/tickets/abc", "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTicketStatusOnly(t *testing.T) {
	repo := &testutil.MockTicketRepo{}
	scorer := &testutil.MockScorer{}
	app := newTestApp(repo, scorer)

	existing := &domain.Ticket{
		ID: 9, Title: "t", Description: "d",
		Category: domain.CategoryGeneral, Priority: domain.PriorityLow,
		Status: domain.StatusOpen, Sentiment: domain.SentimentNeutral, UrgencyScore: 50,
	}
	repo.On("GetByID", mock.Anything, int64(9)).Return(existing, nil).Once()
	repo.On("Update", mock.Anything, existing).Return(nil).Once()

	resp, body := doJSON(t, app, http.MethodPatch, "/api/tickets/9", `{"status":"resolved"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "resolved", data["status"])
	scorer.AssertNotCalled(t, "ScoreSignals", mock.Anything, mock.Anything, mock.Anything)
}

func TestClassifyEndpoint(t *testing.T) {
	scorer := &testutil.MockScorer{}
	app := newTestApp(&testutil.MockTicketRepo{}, scorer)

	scorer.On("Classify", mock.Anything, "refund my card").
		Return(llm.Classification{
			SuggestedCategory: domain.CategoryBilling,
			SuggestedPriority: domain.PriorityMedium,
		}).Once()

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/classify", `{"description":"refund my card"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "billing", data["suggested_category"])
	assert.Equal(t, "medium", data["suggested_priority"])
}

func TestClassifyEndpointBlankDescription(t *testing.T) {
	app := newTestApp(&testutil.MockTicketRepo{}, nil)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/tickets/classify", `{"description":"   "}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClassifyEndpointDefaultsWhenDisabled(t *testing.T) {
	// nil scorer behaves like a missing API key
	app := newTestApp(&testutil.MockTicketRepo{}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/classify", `{"description":"anything"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "general", data["suggested_category"])
	assert.Equal(t, "low", data["suggested_priority"])
}

func TestSuggestTitleEndpointDefaultsWhenDisabled(t *testing.T) {
	app := newTestApp(&testutil.MockTicketRepo{}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/suggest-title",
		`{"description":"Printer on floor two is jammed. Again."}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Printer on floor two is jammed", data["suggested_title"])
}

func TestStatsEndpointShape(t *testing.T) {
	repo := &testutil.MockTicketRepo{}
	app := newTestApp(repo, nil)

	repo.On("Stats", mock.Anything).Return(&domain.TicketStats{
		TotalTickets:     3,
		OpenTickets:      2,
		AvgTicketsPerDay: 1.5,
		Priorities:       domain.PriorityBreakdown{Low: 1, High: 2},
		Categories:       domain.CategoryBreakdown{Technical: 3},
		Sentiments:       domain.SentimentBreakdown{Neutral: 2, Angry: 1},
		AvgUrgencyScore:  64.5,
	}, nil).Once()

	resp, body := doJSON(t, app, http.MethodGet, "/api/tickets/stats", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["total_tickets"])
	assert.Equal(t, float64(2), data["open_tickets"])
	assert.Equal(t, 1.5, data["avg_tickets_per_day"])
	assert.Equal(t, 64.5, data["avg_urgency_score"])
	for _, key := range []string{"priority_breakdown", "category_breakdown", "sentiment_breakdown"} {
		assert.Contains(t, data, key)
	}
	priorities := data["priority_breakdown"].(map[string]any)
	assert.Equal(t, float64(2), priorities["high"])
	sentiments := data["sentiment_breakdown"].(map[string]any)
	assert.Equal(t, float64(1), sentiments["angry"])
}

func TestStatsEndpointEmptyDatabase(t *testing.T) {
	repo := &testutil.MockTicketRepo{}
	app := newTestApp(repo, nil)

	repo.On("Stats", mock.Anything).Return(&domain.TicketStats{}, nil).Once()

	resp, body := doJSON(t, app, http.MethodGet, "/api/tickets/stats", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["avg_tickets_per_day"])
	assert.Equal(t, float64(0), data["avg_urgency_score"])
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	app := newTestApp(&testutil.MockTicketRepo{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}
