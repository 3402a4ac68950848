package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agamariel/shopmart/internal/models"
)

var (
	ErrNotConfigured = errors.New("seo generator is not configured")
	ErrEmptyResponse = errors.New("seo generator returned empty response")
)

const (
	defaultModel      = "llama-3.1-8b-instant"
	defaultRetryAfter = 5 * time.Second
)

// RateLimitError содержит паузу, которую рекомендует сервис генерации.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Generator генерирует SEO-описание товара.
type Generator interface {
	GenerateDescription(ctx context.Context, product *models.Product) (string, error)
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

// HTTPClient ходит в OpenAI-совместимый endpoint /chat/completions.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHTTPClient создаёт HTTP-клиент. Пустой baseURL означает, что генерация отключена.
func NewHTTPClient(baseURL, apiKey, model string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if model == "" {
		model = defaultModel
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateDescription запрашивает HTML-описание товара.
func (c *HTTPClient) GenerateDescription(ctx context.Context, product *models.Product) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid seo base url: %w", err)
	}
	u.Path = u.Path + "/chat/completions"

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: productPrompt(product)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode seo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", fmt.Errorf("decode seo response: %w", err)
		}
		if len(payload.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		text := strings.TrimSpace(payload.Choices[0].Message.Content)
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	case http.StatusTooManyRequests:
		return "", RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return "", fmt.Errorf("unexpected seo status: %d", resp.StatusCode)
	}
}

const systemPrompt = "You write concise SEO product descriptions for an online shop. " +
	"Answer with an HTML fragment only: one <h2> heading and one or two <p> paragraphs."

func productPrompt(p *models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", p.Name)
	if p.Category != nil && p.Category.Name != "" {
		fmt.Fprintf(&b, "Category: %s\n", p.Category.Name)
	}
	fmt.Fprintf(&b, "Price: %s\n", p.UnitPrice.StringFixed(2))
	fmt.Fprintf(&b, "Weight: %s\n", p.UnitWeight.String())
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	return b.String()
}

func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(val); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}
