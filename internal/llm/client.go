// Package llm talks to an OpenAI-compatible chat completion gateway and
// hands back the model's raw text reply for downstream normalization.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"call-insights-go/internal/logger"
)

// Completer is the single round-trip contract the pipeline depends on.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ProviderError wraps a network, auth or server failure from the gateway.
type ProviderError struct {
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("llm provider error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("llm provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

type Gateway struct {
	url    string
	apiKey string
	model  string
	client *http.Client

	httpTimeout  time.Duration
	maxRetryTime time.Duration
}

func NewGateway(url, apiKey, model string) *Gateway {
	return &Gateway{
		url:          url,
		apiKey:       apiKey,
		model:        model,
		client:       &http.Client{Timeout: 25 * time.Second},
		httpTimeout:  25 * time.Second,
		maxRetryTime: 45 * time.Second,
	}
}

// SetTestTransport points the client at a test server and disables retry
// backoff delays.
func (g *Gateway) SetTestTransport(url string) {
	g.url = url
	g.maxRetryTime = time.Second
}

// Complete posts one chat round-trip and returns the assistant text.
// Retries with exponential backoff on transport and 5xx failures; 4xx is
// permanent.
func (g *Gateway) Complete(ctx context.Context, system, prompt string) (string, error) {
	log := logger.Component("llm-gateway")

	if g.url == "" {
		return "", &ProviderError{Err: fmt.Errorf("llm gateway not configured")}
	}

	reqBody := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.1,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var content string
	var lastErr error

	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, g.httpTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, g.url, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if g.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+g.apiKey)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("llm request failed")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		log.WithField("http_status", resp.StatusCode).Debug("llm raw response received")

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			lastErr = fmt.Errorf("client error: %s", string(body))
			return backoff.Permanent(lastErr)
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}

		inner, err := contentFromChoices(body)
		if err != nil {
			lastErr = err
			return lastErr
		}
		content = inner
		lastErr = nil
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = g.maxRetryTime

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return "", &ProviderError{Err: lastErr}
	}
	return content, nil
}

// contentFromChoices reads choices[0].message.content from an OpenAI-shape
// completion body.
func contentFromChoices(body []byte) (string, error) {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
