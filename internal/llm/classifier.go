package llm

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/maher4real/support-ticket-system/internal/config"
	"github.com/maher4real/support-ticket-system/internal/domain"
	"github.com/maher4real/support-ticket-system/internal/observability"
)

// Title length limits. The preferred length applies to the deterministic
// fallback, the hard cap to anything the model returns.
const (
	DefaultTitle            = "Support request"
	preferredTitleMaxLength = 60
	hardTitleMaxLength      = 120
)

// Operation names used for metrics and logging.
const (
	opClassify     = "classify"
	opSuggestTitle = "suggest_title"
	opScoreSignals = "score_signals"
)

// Classification is a suggested category/priority pair for a description.
type Classification struct {
	SuggestedCategory domain.TicketCategory
	SuggestedPriority domain.TicketPriority
}

// Signals carries the AI-derived sentiment and urgency for a ticket.
type Signals struct {
	Sentiment    domain.TicketSentiment
	UrgencyScore int
}

// DefaultClassification is the answer when the model cannot be consulted.
func DefaultClassification() Classification {
	return Classification{
		SuggestedCategory: domain.CategoryGeneral,
		SuggestedPriority: domain.PriorityLow,
	}
}

// DefaultSignals is the answer when the model cannot be consulted.
func DefaultSignals() Signals {
	return Signals{
		Sentiment:    domain.DefaultSentiment,
		UrgencyScore: domain.DefaultUrgencyScore,
	}
}

// Scorer produces AI-derived ticket signals. Implementations never return
// errors; every failure collapses to the operation's default value.
type Scorer interface {
	Classify(ctx context.Context, description string) Classification
	SuggestTitle(ctx context.Context, description string) string
	ScoreSignals(ctx context.Context, title, description string) Signals
}

// Classifier implements Scorer against a chat-completions endpoint. A nil
// client (no API key) disables every call.
type Classifier struct {
	client  *Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClassifier constructs the classifier from configuration.
func NewClassifier(cfg config.OpenAIConfig, logger *zap.Logger, metrics *observability.Metrics) *Classifier {
	return &Classifier{
		client:  NewClient(cfg),
		logger:  logger,
		metrics: metrics,
	}
}

// Classify suggests a category and priority for a description.
func (c *Classifier) Classify(ctx context.Context, description string) Classification {
	fallback := DefaultClassification()
	content, err := c.request(ctx, classifyPrompt, description, classificationSchema(), 40)
	if err != nil {
		c.fail(opClassify, err)
		return fallback
	}

	var parsed struct {
		SuggestedCategory string `json:"suggested_category"`
		SuggestedPriority string `json:"suggested_priority"`
	}
	if err := json.Unmarshal(content, &parsed); err != nil {
		c.fail(opClassify, err)
		return fallback
	}
	category := domain.TicketCategory(parsed.SuggestedCategory)
	priority := domain.TicketPriority(parsed.SuggestedPriority)
	if !category.Valid() || !priority.Valid() {
		c.fail(opClassify, errInvalidPayload)
		return fallback
	}

	c.recordOutcome(opClassify, true)
	return Classification{SuggestedCategory: category, SuggestedPriority: priority}
}

// SuggestTitle proposes a concise title for a description. On any failure it
// falls back to the deterministic title derived from the description itself.
func (c *Classifier) SuggestTitle(ctx context.Context, description string) string {
	fallback := FallbackTitle(description)
	content, err := c.request(ctx, titleSuggestPrompt, description, titleSchema(), 32)
	if err != nil {
		c.fail(opSuggestTitle, err)
		return fallback
	}

	var parsed struct {
		SuggestedTitle string `json:"suggested_title"`
	}
	if err := json.Unmarshal(content, &parsed); err != nil {
		c.fail(opSuggestTitle, err)
		return fallback
	}
	title := normalizeTitle(parsed.SuggestedTitle)
	if title == "" {
		c.fail(opSuggestTitle, errInvalidPayload)
		return fallback
	}

	c.recordOutcome(opSuggestTitle, true)
	return title
}

// ScoreSignals rates sentiment and urgency for a ticket's combined text.
func (c *Classifier) ScoreSignals(ctx context.Context, title, description string) Signals {
	fallback := DefaultSignals()
	input := "Title: " + strings.TrimSpace(title) + "\nDescription: " + strings.TrimSpace(description)
	content, err := c.request(ctx, sentimentUrgencyPrompt, input, signalsSchema(), 48)
	if err != nil {
		c.fail(opScoreSignals, err)
		return fallback
	}

	// json.Number keeps booleans out while still accepting integral floats.
	var parsed struct {
		Sentiment    string      `json:"sentiment"`
		UrgencyScore json.Number `json:"urgency_score"`
	}
	if err := json.Unmarshal(content, &parsed); err != nil {
		c.fail(opScoreSignals, err)
		return fallback
	}
	sentiment := domain.TicketSentiment(parsed.Sentiment)
	if !sentiment.Valid() {
		c.fail(opScoreSignals, errInvalidPayload)
		return fallback
	}
	urgency, ok := integralScore(parsed.UrgencyScore)
	if !ok || !domain.ValidUrgencyScore(urgency) {
		c.fail(opScoreSignals, errInvalidPayload)
		return fallback
	}

	c.recordOutcome(opScoreSignals, true)
	return Signals{Sentiment: sentiment, UrgencyScore: urgency}
}

func (c *Classifier) request(ctx context.Context, systemPrompt, userContent string, schema jsonSchemaFormat, maxTokens int) ([]byte, error) {
	if c.client == nil {
		return nil, errDisabled
	}
	return c.client.CreateStructured(ctx, systemPrompt, userContent, schema, maxTokens)
}

func (c *Classifier) recordOutcome(operation string, ok bool) {
	if c.metrics != nil {
		c.metrics.RecordAICall(operation, ok)
	}
}

func (c *Classifier) fail(operation string, err error) {
	c.recordOutcome(operation, false)
	if c.logger != nil && err != errDisabled {
		c.logger.Warn("ai call failed, using default",
			zap.String("operation", operation),
			zap.Error(err))
	}
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const (
	errDisabled       = sentinelError("llm: integration disabled")
	errInvalidPayload = sentinelError("llm: payload failed validation")
)

func classificationSchema() jsonSchemaFormat {
	return jsonSchemaFormat{
		Name:   "ticket_classification",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"suggested_category": map[string]any{
					"type": "string",
					"enum": domain.CategoryValues(),
				},
				"suggested_priority": map[string]any{
					"type": "string",
					"enum": domain.PriorityValues(),
				},
			},
			"required":             []string{"suggested_category", "suggested_priority"},
			"additionalProperties": false,
		},
	}
}

func titleSchema() jsonSchemaFormat {
	return jsonSchemaFormat{
		Name:   "ticket_title_suggestion",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"suggested_title": map[string]any{
					"type":      "string",
					"minLength": 1,
					"maxLength": hardTitleMaxLength,
				},
			},
			"required":             []string{"suggested_title"},
			"additionalProperties": false,
		},
	}
}

func signalsSchema() jsonSchemaFormat {
	return jsonSchemaFormat{
		Name:   "ticket_sentiment_urgency",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sentiment": map[string]any{
					"type": "string",
					"enum": domain.SentimentValues(),
				},
				"urgency_score": map[string]any{
					"type":    "integer",
					"minimum": domain.UrgencyScoreMin,
					"maximum": domain.UrgencyScoreMax,
				},
			},
			"required":             []string{"sentiment", "urgency_score"},
			"additionalProperties": false,
		},
	}
}

// integralScore accepts integers and integral floats, rejecting everything
// else (including the empty value left by a missing field).
func integralScore(num json.Number) (int, bool) {
	if num.String() == "" {
		return 0, false
	}
	if v, err := num.Int64(); err == nil {
		return int(v), true
	}
	f, err := num.Float64()
	if err != nil {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// FallbackTitle derives a deterministic title from a description: the first
// sentence, stripped of wrapping quotes and trailing punctuation, truncated
// to the preferred length. Never returns an empty string.
func FallbackTitle(description string) string {
	compact := squeezeWhitespace(description)
	if compact == "" {
		return DefaultTitle
	}
	candidate := trimTitleEdges(firstSentence(compact))
	if candidate == "" {
		return DefaultTitle
	}
	if len([]rune(candidate)) > preferredTitleMaxLength {
		candidate = strings.TrimRight(string([]rune(candidate)[:preferredTitleMaxLength]), " ")
	}
	if candidate == "" {
		return DefaultTitle
	}
	return candidate
}

// normalizeTitle cleans a model-produced title. Returns "" when nothing
// usable remains.
func normalizeTitle(raw string) string {
	title := trimTitleEdges(squeezeWhitespace(raw))
	if title == "" {
		return ""
	}
	if len([]rune(title)) > hardTitleMaxLength {
		title = strings.TrimRight(string([]rune(title)[:hardTitleMaxLength]), " ")
	}
	return title
}

func squeezeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimTitleEdges(s string) string {
	s = strings.Trim(s, " \"'`")
	return strings.TrimRight(s, " .!?;:")
}

// firstSentence cuts at the first sentence terminator followed by a space.
// Input is expected to be whitespace-squeezed.
func firstSentence(s string) string {
	for i := 0; i+1 < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			if s[i+1] == ' ' {
				return s[:i+1]
			}
		}
	}
	return s
}
