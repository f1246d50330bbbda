// Package llm turns a fired rule into user-facing insight text.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/google/uuid"
)

// RenderInput is everything a renderer may mention about one insight.
type RenderInput struct {
	InsightID           uuid.UUID          `json:"-"`
	UserID              uuid.UUID          `json:"-"`
	DataType            domain.DataType    `json:"data_type"`
	InsightType         domain.InsightType `json:"insight_type"`
	Priority            domain.Priority    `json:"priority"`
	Direction           domain.Direction   `json:"direction"`
	Magnitude           float64            `json:"magnitude"`
	Confidence          float64            `json:"confidence"`
	EventType           string             `json:"event_type"`
	EventName           string             `json:"event_name,omitempty"`
	EventStart          time.Time          `json:"event_start"`
	EventStarted        bool               `json:"event_started"`
	Tone                string             `json:"tone"`
	IncludeAstroContext bool               `json:"include_astrological_context"`
}

// Rendered is the text attached to an insight.
type Rendered struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	// Personalized is true when the text came from the language model.
	Personalized bool `json:"-"`
}

type Renderer interface {
	Render(ctx context.Context, in RenderInput) (Rendered, error)
}

// TemplateRenderer produces deterministic text and never fails.
type TemplateRenderer struct{}

func (TemplateRenderer) Render(_ context.Context, in RenderInput) (Rendered, error) {
	signal := strings.ReplaceAll(string(in.DataType), "_", " ")
	event := eventLabel(in)

	var title, body string
	switch in.InsightType {
	case domain.InsightWarning:
		title = fmt.Sprintf("Your %s may dip", signal)
		body = fmt.Sprintf("In the past your %s has tended to drop during %s.", signal, event)
	case domain.InsightPreparation:
		title = fmt.Sprintf("Heads-up: %s ahead", event)
		body = fmt.Sprintf("Your %s has tended to drop around %s, which starts %s.", signal, event, in.EventStart.UTC().Format("Mon Jan 2 15:04 MST"))
	case domain.InsightOpportunity:
		title = fmt.Sprintf("A good stretch for your %s", signal)
		body = fmt.Sprintf("Your %s has tended to rise during %s.", signal, event)
	default:
		title = fmt.Sprintf("%s and your %s", capitalize(event), signal)
		body = fmt.Sprintf("Your %s has shown a consistent pattern around %s.", signal, event)
	}

	switch in.Tone {
	case "direct":
		body += fmt.Sprintf(" Confidence %.0f%%.", in.Confidence*100)
	case "playful":
		body += " Worth keeping an eye on how it goes this time."
	default:
		body += " Be kind to yourself and notice what you observe."
	}
	return Rendered{Title: title, Message: body}, nil
}

func eventLabel(in RenderInput) string {
	if !in.IncludeAstroContext {
		return "this period"
	}
	if in.EventName != "" {
		return in.EventName
	}
	return "the " + strings.ReplaceAll(in.EventType, "_", " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FallbackRenderer tries Primary within Timeout and falls back to the template
// renderer on any error.
type FallbackRenderer struct {
	Primary  Renderer
	Fallback Renderer
	Timeout  time.Duration
	Log      *logger.Logger
}

func NewFallbackRenderer(primary Renderer, timeout time.Duration, log *logger.Logger) *FallbackRenderer {
	return &FallbackRenderer{
		Primary:  primary,
		Fallback: TemplateRenderer{},
		Timeout:  timeout,
		Log:      log,
	}
}

func (r *FallbackRenderer) Render(ctx context.Context, in RenderInput) (Rendered, error) {
	if r.Primary != nil {
		renderCtx := ctx
		if r.Timeout > 0 {
			var cancel context.CancelFunc
			renderCtx, cancel = context.WithTimeout(ctx, r.Timeout)
			defer cancel()
		}
		out, err := r.Primary.Render(renderCtx, in)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return Rendered{}, ctx.Err()
		}
		r.Log.Warn("Insight rendering fell back to template", "insight_id", in.InsightID, "error", err)
	}
	return r.Fallback.Render(ctx, in)
}
