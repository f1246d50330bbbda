package langfuse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blaisecz/insight-engine/internal/logger"
)

// PromptSource tells where a loaded prompt came from.
type PromptSource string

const (
	PromptFromLangfuse PromptSource = "langfuse"
	PromptFromCache    PromptSource = "cache"
	PromptFromFallback PromptSource = "fallback"
)

// Prompt is a managed insight prompt. Model is set when the prompt's Langfuse
// config pins one.
type Prompt struct {
	Text    string       `json:"text"`
	Version int          `json:"version,omitempty"`
	Model   string       `json:"model,omitempty"`
	Source  PromptSource `json:"-"`
}

// PromptRequest names the prompt to load and where to keep the last good copy.
type PromptRequest struct {
	Name  string
	Label string
	// CachePath holds the last prompt fetched from Langfuse.
	CachePath string
	Fallback  string
}

var errLangfuseDisabled = errors.New("langfuse integration disabled")

// LoadPrompt resolves a prompt from Langfuse, then the on-disk cache, then req.Fallback.
func LoadPrompt(ctx context.Context, log *logger.Logger, cfg Config, req PromptRequest) (Prompt, error) {
	if req.Name != "" {
		prompt, err := fetchPrompt(ctx, cfg, req)
		switch {
		case err == nil:
			if err := writeCachedPrompt(req.CachePath, prompt); err != nil {
				log.Warn("Failed to cache prompt locally", "path", req.CachePath, "error", err)
			}
			return prompt, nil
		case !errors.Is(err, errLangfuseDisabled):
			log.Warn("Prompt fetch failed", "prompt", req.Name, "error", err)
		}
	}

	if prompt, err := readCachedPrompt(req.CachePath); err == nil {
		return prompt, nil
	} else if req.Fallback == "" {
		return Prompt{}, err
	}
	return Prompt{Text: req.Fallback, Source: PromptFromFallback}, nil
}

type promptResponse struct {
	Type    string          `json:"type"`
	Version int             `json:"version"`
	Prompt  json.RawMessage `json:"prompt"`
	Config  struct {
		Model string `json:"model"`
	} `json:"config"`
}

func fetchPrompt(ctx context.Context, cfg Config, req PromptRequest) (Prompt, error) {
	if !cfg.Enabled() {
		return Prompt{}, errLangfuseDisabled
	}

	endpoint, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return Prompt{}, fmt.Errorf("invalid LANGFUSE_BASE_URL: %w", err)
	}
	endpoint.Path = strings.TrimSuffix(endpoint.Path, "/") + "/api/public/v2/prompts/" + url.PathEscape(req.Name)
	if req.Label != "" {
		endpoint.RawQuery = url.Values{"label": {req.Label}}.Encode()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Prompt{}, fmt.Errorf("create prompt request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(cfg.PublicKey, cfg.SecretKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return Prompt{}, fmt.Errorf("call Langfuse prompt API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Prompt{}, fmt.Errorf("langfuse prompt API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pr promptResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Prompt{}, fmt.Errorf("decode Langfuse prompt response: %w", err)
	}

	text, err := pr.text()
	if err != nil {
		return Prompt{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Prompt{}, fmt.Errorf("prompt %q is empty", req.Name)
	}
	return Prompt{Text: text, Version: pr.Version, Model: pr.Config.Model, Source: PromptFromLangfuse}, nil
}

func (pr promptResponse) text() (string, error) {
	switch pr.Type {
	case "", "text":
		var s string
		if err := json.Unmarshal(pr.Prompt, &s); err != nil {
			return "", fmt.Errorf("parse text prompt: %w", err)
		}
		return s, nil
	case "chat":
		var messages []chatMessage
		if err := json.Unmarshal(pr.Prompt, &messages); err != nil {
			return "", fmt.Errorf("parse chat prompt: %w", err)
		}
		return joinChat(messages), nil
	}
	return "", fmt.Errorf("unsupported prompt type %q", pr.Type)
}

type chatMessage struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name"`
}

// joinChat renders chat messages as "ROLE: content" blocks. Placeholders become {{name}}.
func joinChat(messages []chatMessage) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		content := m.Content
		if m.Type == "placeholder" {
			content = ""
			if m.Name != "" {
				content = "{{" + m.Name + "}}"
			}
		}
		if content == "" {
			continue
		}
		role := strings.ToUpper(m.Role)
		if role == "" {
			role = "MESSAGE"
		}
		parts = append(parts, role+": "+content)
	}
	return strings.Join(parts, "\n\n")
}

func readCachedPrompt(path string) (Prompt, error) {
	if path == "" {
		return Prompt{}, errors.New("no prompt cache configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read prompt cache: %w", err)
	}

	var p Prompt
	if err := json.Unmarshal(data, &p); err != nil || p.Text == "" {
		// Plain-text cache files are accepted as-is.
		p = Prompt{Text: string(data)}
	}
	p.Source = PromptFromCache
	return p, nil
}

func writeCachedPrompt(path string, p Prompt) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
