package ollama

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/xavierca1/zapvendas/internal/entity"
)

var ErrEmptyResponse = errors.New("ollama returned an empty message")

type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client talks to a local Ollama runtime over its /api/chat endpoint.
type Client struct {
	http        *resty.Client
	model       string
	temperature float64
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetTimeout(cfg.Timeout),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Chat sends the whole conversation in one non-streaming request and returns
// the assistant message.
func (c *Client) Chat(ctx context.Context, messages []entity.PromptMessage) (string, error) {
	var out chatResponse
	var apiErr errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:    c.model,
			Messages: messages,
			Stream:   false,
			Options:  chatOptions{Temperature: c.temperature},
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}

	if resp.IsError() {
		if apiErr.Error != "" {
			return "", fmt.Errorf("ollama error %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return "", fmt.Errorf("ollama error %d: %s", resp.StatusCode(), resp.String())
	}

	content := strings.TrimSpace(out.Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// Ping checks that the runtime is reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return fmt.Errorf("ollama ping: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ollama ping: status %d", resp.StatusCode())
	}
	return nil
}
