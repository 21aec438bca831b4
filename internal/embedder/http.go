package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/errors"
)

// HTTPEmbedder talks to an embedding service over HTTP. Crops are posted as
// PNG to /embed/image, labels as JSON to /embed/text; both endpoints answer
// {"embedding": [...]}.
type HTTPEmbedder struct {
	endpoint string
	client   *http.Client
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewHTTP builds an HTTPEmbedder from settings.
func NewHTTP(settings conf.EmbedderSettings) *HTTPEmbedder {
	timeout := time.Duration(settings.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPEmbedder{
		endpoint: settings.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// EmbedImage implements Embedder.
func (e *HTTPEmbedder) EmbedImage(ctx context.Context, img image.Image) ([]float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.New(err).
			Component("embedder").
			Category(errors.CategoryEmbedding).
			Build()
	}
	return e.post(ctx, e.endpoint+"/embed/image", "image/png", &buf)
}

// EmbedText implements Embedder.
func (e *HTTPEmbedder) EmbedText(ctx context.Context, label string) ([]float64, error) {
	body, err := json.Marshal(map[string]string{"text": label})
	if err != nil {
		return nil, errors.New(err).
			Component("embedder").
			Category(errors.CategoryEmbedding).
			Build()
	}
	return e.post(ctx, e.endpoint+"/embed/text", "application/json", bytes.NewReader(body))
}

func (e *HTTPEmbedder) post(ctx context.Context, url, contentType string, body io.Reader) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.New(err).
			Component("embedder").
			Category(errors.CategoryNetwork).
			Build()
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.New(err).
			Component("embedder").
			Category(errors.CategoryEmbedding).
			Context("url", url).
			Build()
	}
	defer resp.Body.Close() //nolint:errcheck // response body fully read below

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Errorf("embedding service returned status %d", resp.StatusCode)).
			Component("embedder").
			Category(errors.CategoryEmbedding).
			Context("url", url).
			Build()
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.New(err).
			Component("embedder").
			Category(errors.CategoryEmbedding).
			Context("url", url).
			Build()
	}
	if len(parsed.Embedding) == 0 {
		return nil, errors.Newf("embedding service returned an empty vector").
			Component("embedder").
			Category(errors.CategoryEmbedding).
			Context("url", url).
			Build()
	}
	return parsed.Embedding, nil
}
