package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lotlens/lotlens/config"
	"github.com/lotlens/lotlens/models"
)

// Client is a lightweight OpenAI-compatible API client for vision-based
// structured extraction. It uses net/http directly — no third-party SDK
// needed.
type Client struct {
	httpClient *http.Client
	cfg        config.VisionConfig
}

// NewClient creates a new vision client with the given http.Client.
// Pass nil to use a default client.
func NewClient(cfg config.VisionConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// chatRequest is the OpenAI chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage carries multimodal content: text parts and image parts.
type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatResponse is the minimal OpenAI chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse captures an API error from the vision provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// maxResponseTokens bounds the model's reply; a three-listing section never
// legitimately needs more.
const maxResponseTokens = 4096

// Describe sends one section screenshot plus the extraction prompt to the
// vision model and returns the raw text reply. The reply is expected to be
// JSON but that is not validated here; the reconciler parses tolerantly.
func (c *Client) Describe(ctx context.Context, png []byte, prompt string) (string, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
		Temperature: 0,
		MaxTokens:   maxResponseTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// Build URL: baseURL + /chat/completions
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewPipelineError(models.ErrCodeVisionFailure, "vision request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewPipelineError(models.ErrCodeVisionFailure, "failed to read vision response", err)
	}

	// Handle error status codes.
	if resp.StatusCode != http.StatusOK {
		return "", classifyVisionError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", models.NewPipelineError(models.ErrCodeVisionFailure, "failed to parse vision response", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", models.NewPipelineError(models.ErrCodeVisionFailure, "vision model returned no choices", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// classifyVisionError maps HTTP status codes to appropriate error codes.
func classifyVisionError(statusCode int, body []byte) *models.PipelineError {
	var errResp chatErrorResponse
	msg := "vision API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewPipelineError(models.ErrCodeVisionAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewPipelineError(models.ErrCodeVisionRateLimited, msg, nil)
	default:
		return models.NewPipelineError(models.ErrCodeVisionFailure, fmt.Sprintf("vision API returned %d: %s", statusCode, msg), nil)
	}
}
