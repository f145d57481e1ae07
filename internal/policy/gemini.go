package policy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"pixel-poker/internal/game"
)

const systemPrompt = "You are a heads-up no-limit Texas Hold'em bot.\n" +
	"Return JSON only with schema: " +
	`{"action_type":"fold|check|call|bet|raise|all_in","amount":<int optional>}.` + "\n" +
	"amount is the additional chips to put in. Choose from legal_actions only."

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// GeminiSource asks the Generative Language API for a decision.
type GeminiSource struct {
	http    *httpClient
	apiKey  string
	model   string
	baseURL string
}

func NewGeminiSource(cfg GeminiConfig) *GeminiSource {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiSource{
		http:    newHTTPClient(cfg.Client),
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: base,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"responseMimeType"`
		MaxOutputTokens  int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiSource) Decide(ctx context.Context, req Request) (Decision, error) {
	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: systemPrompt + "\n\nstate=" + string(req.Payload)}},
		}},
	}
	body.GenerationConfig.Temperature = 0.1
	body.GenerationConfig.ResponseMimeType = "application/json"
	body.GenerationConfig.MaxOutputTokens = 64

	endpoint := g.baseURL + "/models/" + url.PathEscape(g.model) + ":generateContent"
	raw, err := g.http.postJSON(ctx, endpoint, map[string]string{"x-goog-api-key": g.apiKey}, body)
	if err != nil {
		return Decision{}, err
	}
	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Decision{}, &TransportError{Err: err}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return Decision{}, ErrNoDecision
	}
	return ParseDecision(resp.Candidates[0].Content.Parts[0].Text)
}

var errNoJSON = errors.New("no json object in response")

// ParseDecision pulls the first JSON object out of model text, tolerating
// code fences and surrounding prose.
func ParseDecision(text string) (Decision, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return Decision{}, errNoJSON
	}
	var parsed struct {
		ActionType string   `json:"action_type"`
		Amount     *float64 `json:"amount"`
	}
	if err := json.Unmarshal([]byte(clean[start:end+1]), &parsed); err != nil {
		return Decision{}, err
	}
	if strings.TrimSpace(parsed.ActionType) == "" {
		return Decision{}, ErrNoDecision
	}
	d := Decision{ActionType: game.ActionType(strings.ToLower(strings.TrimSpace(parsed.ActionType)))}
	if parsed.Amount != nil {
		v := int64(*parsed.Amount)
		d.Amount = &v
	}
	return d, nil
}
