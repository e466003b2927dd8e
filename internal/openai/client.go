// Package openai is a minimal chat completions client. Only the small
// surface needed for the question-to-SQL translation is implemented.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fitask/fitask/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4.1-mini"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiErrorBody `json:"error,omitempty"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// APIError is a non-2xx reply from the completions endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai api error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsQuotaError reports whether err indicates an exhausted provider quota,
// either via the 429 status or via the quota markers in the error payload.
func IsQuotaError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests ||
		apiErr.Code == "insufficient_quota" ||
		strings.Contains(apiErr.Message, "exceeded your current quota")
}

// Complete sends one system + user message pair with temperature 0 and
// returns the first choice's content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "openai.complete")
	defer span.End()
	span.SetAttributes(attribute.String("openai.model", c.model))

	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("completion call: %s", err))
		return "", fmt.Errorf("completion call: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBytes, &completion); err != nil {
		// non-2xx with an unparseable body still surfaces as an APIError
		if resp.StatusCode != http.StatusOK {
			return "", &APIError{StatusCode: resp.StatusCode, Message: string(respBytes)}
		}
		span.SetStatus(codes.Error, fmt.Sprintf("unmarshal completion resp: %s", err))
		return "", fmt.Errorf("unmarshal completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if completion.Error != nil {
			apiErr.Code = completion.Error.Code
			apiErr.Type = completion.Error.Type
			apiErr.Message = completion.Error.Message
		}
		log.Warnf("openai completion failed: %s", apiErr)
		return "", apiErr
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
