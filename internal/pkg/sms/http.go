package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 1 << 10
)

type sendRequest struct {
	From     string `json:"from,omitempty"`
	Receptor string `json:"receptor"`
	Message  string `json:"message"`
}

// HTTP posts messages to a JSON panel endpoint with bearer authentication.
// 5xx and 429 responses and transport errors are retried with a capped
// Fibonacci backoff.
type HTTP struct {
	client     *http.Client
	url        string
	apiKey     string
	from       string
	maxRetries uint64
	backoff    func() retry.Backoff
}

// NewHTTP validates cfg and returns an HTTP sender.
func NewHTTP(cfg Config) (*HTTP, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: url and api key are required", ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTP{
		client:     &http.Client{Timeout: timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		maxRetries: cfg.MaxRetries,
		backoff: func() retry.Backoff {
			b := retry.NewFibonacci(200 * time.Millisecond)
			return retry.WithCappedDuration(5*time.Second, b)
		},
	}, nil
}

// Send delivers text to phone.
func (h *HTTP) Send(ctx context.Context, phone, text string) error {
	body, err := json.Marshal(sendRequest{From: h.from, Receptor: phone, Message: text})
	if err != nil {
		return err
	}

	b := retry.WithMaxRetries(h.maxRetries, h.backoff())

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := h.post(ctx, body)
		if err != nil && attempt <= int(h.maxRetries) {
			slog.WarnContext(ctx, "sms send attempt failed", "attempt", attempt, "error", err)
		}
		return err
	})
}

func (h *HTTP) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err = fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(msg))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return retry.RetryableError(err)
	}
	return err
}
