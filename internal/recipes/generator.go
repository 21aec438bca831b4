package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/errors"
)

// Generator produces a recipe as free text for a set of ingredients. It
// backs the corpus matcher when no corpus entry is cookable.
type Generator interface {
	Generate(ctx context.Context, ingredients []string) (string, error)
}

const generatorPrompt = "You are a cooking assistant. Suggest one simple recipe " +
	"using only the listed ingredients plus common pantry staples. Reply with " +
	"the dish name on the first line followed by numbered steps."

// ChatGenerator calls an OpenAI-compatible chat completions endpoint.
type ChatGenerator struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewChatGenerator builds a generator from configuration.
func NewChatGenerator(settings conf.GeneratorSettings) *ChatGenerator {
	return &ChatGenerator{
		endpoint: strings.TrimRight(settings.Endpoint, "/"),
		apiKey:   settings.APIKey,
		model:    settings.Model,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for one recipe suggestion.
func (g *ChatGenerator) Generate(ctx context.Context, ingredients []string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: generatorPrompt},
			{Role: "user", Content: "Ingredients: " + strings.Join(ingredients, ", ")},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.New(fmt.Errorf("recipe generation request: %w", err)).
			Component("recipes").
			Category(errors.CategoryNetwork).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Newf("recipe generation returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))).
			Component("recipes").
			Category(errors.CategoryNetwork).
			Build()
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.New(fmt.Errorf("decoding recipe generation response: %w", err)).
			Component("recipes").
			Category(errors.CategoryNetwork).
			Build()
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.Newf("recipe generation returned no content").
			Component("recipes").
			Category(errors.CategoryNetwork).
			Build()
	}
	return parsed.Choices[0].Message.Content, nil
}
