package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/google/uuid"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() RenderInput {
	return RenderInput{
		InsightID:           uuid.New(),
		DataType:            domain.DataTypeMood,
		InsightType:         domain.InsightOpportunity,
		Priority:            domain.PriorityHigh,
		Direction:           domain.DirectionPositive,
		Magnitude:           0.9,
		Confidence:          0.84,
		EventType:           "full_moon",
		EventStart:          time.Date(2024, 3, 25, 7, 0, 0, 0, time.UTC),
		EventStarted:        true,
		Tone:                "gentle",
		IncludeAstroContext: true,
	}
}

func TestTemplateRenderer(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*RenderInput)
		wantTitle string
		contains  string
	}{
		{
			name:      "opportunity",
			mutate:    func(in *RenderInput) {},
			wantTitle: "A good stretch for your mood",
			contains:  "the full moon",
		},
		{
			name:      "warning",
			mutate:    func(in *RenderInput) { in.InsightType = domain.InsightWarning },
			wantTitle: "Your mood may dip",
			contains:  "tended to drop",
		},
		{
			name: "preparation without astro context",
			mutate: func(in *RenderInput) {
				in.InsightType = domain.InsightPreparation
				in.IncludeAstroContext = false
			},
			wantTitle: "Heads-up: this period ahead",
			contains:  "Mon Mar 25 07:00 UTC",
		},
		{
			name: "direct tone shows confidence",
			mutate: func(in *RenderInput) {
				in.InsightType = domain.InsightAwareness
				in.Tone = "direct"
			},
			wantTitle: "The full moon and your mood",
			contains:  "Confidence 84%.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)
			out, err := TemplateRenderer{}.Render(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, out.Title)
			assert.Contains(t, out.Message, tt.contains)
			assert.False(t, out.Personalized)
		})
	}
}

type stubRenderer struct {
	out Rendered
	err error
}

func (s stubRenderer) Render(context.Context, RenderInput) (Rendered, error) {
	return s.out, s.err
}

func TestFallbackRenderer(t *testing.T) {
	t.Run("uses primary", func(t *testing.T) {
		r := NewFallbackRenderer(stubRenderer{out: Rendered{Title: "t", Message: "m", Personalized: true}}, time.Second, logger.Nop())
		out, err := r.Render(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.True(t, out.Personalized)
	})

	t.Run("falls back on error", func(t *testing.T) {
		r := NewFallbackRenderer(stubRenderer{err: errors.New("rate limited")}, time.Second, logger.Nop())
		out, err := r.Render(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.False(t, out.Personalized)
		assert.Equal(t, "A good stretch for your mood", out.Title)
	})

	t.Run("nil primary", func(t *testing.T) {
		r := NewFallbackRenderer(nil, 0, logger.Nop())
		out, err := r.Render(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.NotEmpty(t, out.Message)
	})

	t.Run("cancelled caller", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := NewFallbackRenderer(stubRenderer{err: context.Canceled}, time.Second, logger.Nop())
		_, err := r.Render(ctx, sampleInput())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIRenderer(t *testing.T) {
	t.Run("nil when unconfigured", func(t *testing.T) {
		var r *OpenAIRenderer = NewOpenAIRenderer("", "", "")
		assert.Nil(t, r)
		_, err := r.Render(context.Background(), sampleInput())
		assert.ErrorIs(t, err, ErrOpenAIUnavailable)
	})

	t.Run("parses json response", func(t *testing.T) {
		server := chatServer(t, `{"title":"Brighter days","message":"Your mood often lifts near the full moon."}`)
		r := NewOpenAIRenderer("sk-test", "", "", option.WithBaseURL(server.URL), option.WithMaxRetries(0))

		out, err := r.Render(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.Equal(t, "Brighter days", out.Title)
		assert.True(t, out.Personalized)
	})

	t.Run("rejects malformed response", func(t *testing.T) {
		server := chatServer(t, `not json`)
		r := NewOpenAIRenderer("sk-test", "", "", option.WithBaseURL(server.URL), option.WithMaxRetries(0))

		_, err := r.Render(context.Background(), sampleInput())
		assert.ErrorIs(t, err, ErrOpenAIResponse)
	})
}
