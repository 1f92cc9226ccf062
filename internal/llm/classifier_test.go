package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/maher4real/support-ticket-system/internal/config"
	"github.com/maher4real/support-ticket-system/internal/domain"
	"github.com/maher4real/support-ticket-system/internal/observability"
)

func testConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 2,
	}
}

func newTestClassifier(t *testing.T, handler http.HandlerFunc) (*Classifier, *observability.Metrics) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	metrics := observability.NewMetrics()
	return NewClassifier(testConfig(server.URL), zap.NewNop(), metrics), metrics
}

// completionBody wraps content the way the chat-completions API does.
func completionBody(t *testing.T, content any) []byte {
	t.Helper()
	raw, err := json.Marshal(content)
	assert.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": string(raw)}},
		},
	})
	assert.NoError(t, err)
	return body
}

func respondWith(t *testing.T, content any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionBody(t, content))
	}
}

func TestClassifierDisabledReturnsDefaults(t *testing.T) {
	c := NewClassifier(config.OpenAIConfig{}, zap.NewNop(), nil)
	ctx := context.Background()

	assert.Equal(t, DefaultClassification(), c.Classify(ctx, "my invoice is wrong"))
	assert.Equal(t, DefaultSignals(), c.ScoreSignals(ctx, "Billing", "my invoice is wrong"))
	assert.Equal(t, "My invoice is wrong", c.SuggestTitle(ctx, "My invoice is wrong."))
}

func TestClassifyValidResponse(t *testing.T) {
	c, metrics := newTestClassifier(t, respondWith(t, map[string]any{
		"suggested_category": "billing",
		"suggested_priority": "high",
	}))

	got := c.Classify(context.Background(), "I was double charged")
	assert.Equal(t, domain.CategoryBilling, got.SuggestedCategory)
	assert.Equal(t, domain.PriorityHigh, got.SuggestedPriority)
	assert.Equal(t, int64(1), metrics.AICallCount("classify", "ok"))
}

func TestClassifyRejectsUnknownEnumValues(t *testing.T) {
	c, metrics := newTestClassifier(t, respondWith(t, map[string]any{
		"suggested_category": "shipping",
		"suggested_priority": "high",
	}))

	got := c.Classify(context.Background(), "where is my parcel")
	assert.Equal(t, DefaultClassification(), got)
	assert.Equal(t, int64(1), metrics.AICallCount("classify", "fallback"))
}

func TestClassifyServerErrorFallsBack(t *testing.T) {
	c, _ := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Equal(t, DefaultClassification(), c.Classify(context.Background(), "help"))
}

func TestClassifyTimeoutFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	cfg := testConfig(server.URL)
	cfg.TimeoutSeconds = 0.1
	c := NewClassifier(cfg, zap.NewNop(), nil)

	assert.Equal(t, DefaultClassification(), c.Classify(context.Background(), "help"))
}

func TestClassifyEmptyChoicesFallsBack(t *testing.T) {
	c, _ := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	assert.Equal(t, DefaultClassification(), c.Classify(context.Background(), "help"))
}

func TestClassifySendsStructuredRequest(t *testing.T) {
	var captured map[string]any
	c, _ := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write(completionBody(t, map[string]any{
			"suggested_category": "general",
			"suggested_priority": "low",
		}))
	})

	c.Classify(context.Background(), "hello there")

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Equal(t, float64(0), captured["temperature"])
	assert.Equal(t, float64(40), captured["max_tokens"])
	format := captured["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "ticket_classification", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestScoreSignalsValidResponse(t *testing.T) {
	c, _ := newTestClassifier(t, respondWith(t, map[string]any{
		"sentiment":     "angry",
		"urgency_score": 90,
	}))

	got := c.ScoreSignals(context.Background(), "Outage", "production is down")
	assert.Equal(t, domain.SentimentAngry, got.Sentiment)
	assert.Equal(t, 90, got.UrgencyScore)
}

func TestScoreSignalsAcceptsIntegralFloat(t *testing.T) {
	c, _ := newTestClassifier(t, respondWith(t, map[string]any{
		"sentiment":     "calm",
		"urgency_score": 42.0,
	}))

	got := c.ScoreSignals(context.Background(), "Question", "how do I export data")
	assert.Equal(t, domain.SentimentCalm, got.Sentiment)
	assert.Equal(t, 42, got.UrgencyScore)
}

func TestScoreSignalsRejectsInvalidPayloads(t *testing.T) {
	cases := map[string]map[string]any{
		"boolean urgency":    {"sentiment": "calm", "urgency_score": true},
		"fractional urgency": {"sentiment": "calm", "urgency_score": 42.5},
		"urgency above max":  {"sentiment": "calm", "urgency_score": 101},
		"urgency below min":  {"sentiment": "calm", "urgency_score": -1},
		"unknown sentiment":  {"sentiment": "ecstatic", "urgency_score": 50},
		"missing urgency":    {"sentiment": "calm"},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			c, metrics := newTestClassifier(t, respondWith(t, payload))
			got := c.ScoreSignals(context.Background(), "t", "d")
			assert.Equal(t, DefaultSignals(), got)
			assert.Equal(t, int64(1), metrics.AICallCount("score_signals", "fallback"))
		})
	}
}

func TestSuggestTitleNormalizesModelOutput(t *testing.T) {
	c, _ := newTestClassifier(t, respondWith(t, map[string]any{
		"suggested_title": `  "Printer   offline in office!"  `,
	}))

	got := c.SuggestTitle(context.Background(), "the printer is offline")
	assert.Equal(t, "Printer offline in office", got)
}

func TestSuggestTitleEmptyModelOutputUsesFallback(t *testing.T) {
	c, _ := newTestClassifier(t, respondWith(t, map[string]any{
		"suggested_title": `"..."`,
	}))

	got := c.SuggestTitle(context.Background(), "Payment failed twice today. Card was charged anyway.")
	assert.Equal(t, "Payment failed twice today", got)
}

func TestFallbackTitle(t *testing.T) {
	longWord := ""
	for i := 0; i < 80; i++ {
		longWord += "a"
	}

	cases := []struct {
		name        string
		description string
		want        string
	}{
		{"empty", "", "Support request"},
		{"whitespace only", "   \n\t ", "Support request"},
		{"first sentence", "App crashes on login. It happens every time.", "App crashes on login"},
		{"question mark", "Why was I charged twice? Please refund me.", "Why was I charged twice"},
		{"trailing punctuation", "Server is down!!", "Server is down"},
		{"surrounding quotes", `"Cannot reset password."`, "Cannot reset password"},
		{"punctuation only", "...!?", "Support request"},
		{"squeezes whitespace", "Email   sync    broken", "Email sync broken"},
		{"truncates to sixty", longWord, longWord[:60]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FallbackTitle(tc.description))
		})
	}
}

func TestNormalizeTitleHardCap(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "x"
	}
	got := normalizeTitle(long)
	assert.Len(t, got, 120)
}
