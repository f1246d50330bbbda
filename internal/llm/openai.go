package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

// DefaultSystemPrompt is used when no prompt is managed in Langfuse.
const DefaultSystemPrompt = `You write short proactive insights for a personal wellbeing app.

You receive one statistically validated pattern linking a user's behavioral signal (mood, energy, sleep, ...) to an upcoming or current astrological event. Base the text only on the provided data.

Rules:
- Describe a tendency, never a certainty or a prediction of fate.
- Do NOT give medical advice or mention diagnoses.
- Match the requested tone: gentle, direct or playful.
- Mention the astrological event only when include_astrological_context is true.
- Title at most 60 characters, message at most 2 sentences.

Respond as strict JSON: {"title": "...", "message": "..."}. No extra fields. No backticks.`

const userPromptTemplate = `Pattern and event data:

%s

Write the insight in the required JSON format.`

// OpenAIRenderer renders insights with a chat completion.
type OpenAIRenderer struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewOpenAIRenderer returns nil if apiKey is empty.
func NewOpenAIRenderer(apiKey, model, systemPrompt string, opts ...option.RequestOption) *OpenAIRenderer {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}

	return &OpenAIRenderer{
		client:       openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:        model,
		systemPrompt: systemPrompt,
	}
}

func (c *OpenAIRenderer) Render(ctx context.Context, in RenderInput) (Rendered, error) {
	if c == nil {
		return Rendered{}, ErrOpenAIUnavailable
	}

	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return Rendered{}, fmt.Errorf("%w: failed to serialize input: %v", ErrOpenAIRequest, err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt),
			openai.UserMessage(fmt.Sprintf(userPromptTemplate, payload)),
		},
	})
	if err != nil {
		return Rendered{}, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}
	if len(resp.Choices) == 0 {
		return Rendered{}, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	var out Rendered
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return Rendered{}, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}
	if strings.TrimSpace(out.Title) == "" || strings.TrimSpace(out.Message) == "" {
		return Rendered{}, fmt.Errorf("%w: empty title or message", ErrOpenAIResponse)
	}
	out.Personalized = true
	return out, nil
}
