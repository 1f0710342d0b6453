package embedding

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"photofind/internal/domain"
)

// ClipEmbedder talks to a CLIP-family embeddings HTTP API that accepts
// both text and image inputs in a shared vector space (Jina CLIP and
// compatible endpoints). One adapter instance is safe for concurrent
// use; it holds no per-call state.
type ClipEmbedder struct {
	apiKey    string
	model     string
	baseURL   string
	dimension int
	client    *http.Client
}

type embeddingInput struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"` // base64-encoded image bytes
}

type embeddingRequest struct {
	Input []embeddingInput `json:"input"`
	Model string           `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewJinaEmbedder creates an embedder against the Jina multimodal API.
func NewJinaEmbedder(apiKeyEnv, model string, dimension int) (*ClipEmbedder, error) {
	return NewClipEmbedder(apiKeyEnv, model, "https://api.jina.ai/v1", dimension)
}

// NewOllamaEmbedder creates an embedder against a local Ollama server
// running a CLIP-family model.
func NewOllamaEmbedder(model, baseURL string, dimension int) (*ClipEmbedder, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	return &ClipEmbedder{
		apiKey:    "ollama",
		model:     model,
		baseURL:   baseURL,
		dimension: dimension,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// NewClipEmbedder creates an embedder against any endpoint speaking the
// multimodal embeddings request shape. The API key is read from the
// named environment variable.
func NewClipEmbedder(apiKeyEnv, model, baseURL string, dimension int) (*ClipEmbedder, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	if dimension == 0 {
		switch model {
		case "jina-clip-v1":
			dimension = 768
		case "jina-clip-v2":
			dimension = 1024
		}
	}

	return &ClipEmbedder{
		apiKey:    apiKey,
		model:     model,
		baseURL:   baseURL,
		dimension: dimension,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

func (e *ClipEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, embeddingInput{Text: text})
}

func (e *ClipEmbedder) EmbedImage(ctx context.Context, path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read image %s: %v", domain.ErrDecode, path, err)
	}
	return e.embed(ctx, embeddingInput{Image: base64.StdEncoding.EncodeToString(data)})
}

func (e *ClipEmbedder) embed(ctx context.Context, input embeddingInput) ([]float32, error) {
	reqBody := embeddingRequest{
		Input: []embeddingInput{input},
		Model: e.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrEmbedding, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d: %s", domain.ErrEmbedding, resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200]
		}
		return nil, fmt.Errorf("%w: failed to parse response (body: %s): %v", domain.ErrEmbedding, bodyPreview, err)
	}

	if embResp.Error != nil {
		return nil, fmt.Errorf("%w: API error: %s", domain.ErrEmbedding, embResp.Error.Message)
	}

	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("%w: API returned no embeddings", domain.ErrEmbedding)
	}

	vec := embResp.Data[0].Embedding
	if e.dimension > 0 && len(vec) != e.dimension {
		return nil, fmt.Errorf("%w: expected dimension %d, got %d", domain.ErrDimensionMismatch, e.dimension, len(vec))
	}

	return vec, nil
}

func (e *ClipEmbedder) Dimension() int {
	return e.dimension
}

func (e *ClipEmbedder) ModelName() string {
	return e.model
}
