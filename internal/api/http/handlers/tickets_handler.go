package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/maher4real/support-ticket-system/internal/api/dto"
	"github.com/maher4real/support-ticket-system/internal/domain"
	"github.com/maher4real/support-ticket-system/internal/service"
	apperrors "github.com/maher4real/support-ticket-system/pkg/util"
)

// TicketsHandler manages the tickets resource and its AI side-channels.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketListQuery(c)
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), id, service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Classify POST /api/tickets/classify.
func (h *TicketsHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return apperrors.NewValidationError("description is required", nil)
	}
	classification := h.service.ClassifyDescription(c.UserContext(), description)
	return c.JSON(fiber.Map{"data": dto.ClassifyResponse{
		SuggestedCategory: classification.SuggestedCategory,
		SuggestedPriority: classification.SuggestedPriority,
	}})
}

// SuggestTitle POST /api/tickets/suggest-title.
func (h *TicketsHandler) SuggestTitle(c *fiber.Ctx) error {
	var req dto.SuggestTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return apperrors.NewValidationError("description is required", nil)
	}
	title := h.service.SuggestTitle(c.UserContext(), description)
	return c.JSON(fiber.Map{"data": dto.SuggestTitleResponse{SuggestedTitle: title}})
}

// Stats GET /api/tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.TicketStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func parseTicketListQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.TicketCategory(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	// Only created_at ordering is supported; anything else keeps the
	// newest-first default.
	if c.Query("ordering") == "created_at" {
		filter.Ascending = true
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Category:     ticket.Category,
		Priority:     ticket.Priority,
		Status:       ticket.Status,
		Sentiment:    ticket.Sentiment,
		UrgencyScore: ticket.UrgencyScore,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func statsResponse(stats *domain.TicketStats) dto.TicketStatsResponse {
	return dto.TicketStatsResponse{
		TotalTickets:     stats.TotalTickets,
		OpenTickets:      stats.OpenTickets,
		AvgTicketsPerDay: stats.AvgTicketsPerDay,
		PriorityBreakdown: dto.PriorityBreakdownResponse{
			Low:      stats.Priorities.Low,
			Medium:   stats.Priorities.Medium,
			High:     stats.Priorities.High,
			Critical: stats.Priorities.Critical,
		},
		CategoryBreakdown: dto.CategoryBreakdownResponse{
			Billing:   stats.Categories.Billing,
			Technical: stats.Categories.Technical,
			Account:   stats.Categories.Account,
			General:   stats.Categories.General,
		},
		SentimentBreakdown: dto.SentimentBreakdownResponse{
			Calm:       stats.Sentiments.Calm,
			Neutral:    stats.Sentiments.Neutral,
			Frustrated: stats.Sentiments.Frustrated,
			Angry:      stats.Sentiments.Angry,
		},
		AvgUrgencyScore: stats.AvgUrgencyScore,
	}
}
