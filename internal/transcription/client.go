// Package transcription wraps the external speech-to-text provider: publish
// an audio source, poll until the job settles, then fetch the utterance list.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"call-insights-go/internal/logger"
	"call-insights-go/internal/types"
)

// Error marks a per-file transcription failure. Batch callers log and skip;
// one bad file never aborts the batch.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type publishResponse struct {
	Code int `json:"Code"`
	Data struct {
		MediaID       string `json:"MediaId"`
		Status        string `json:"Status"`
		TranscriptURL string `json:"TranscriptURL"`
	} `json:"Data"`
	Reason string `json:"Reason,omitempty"`
}

type statusResponse struct {
	Code int `json:"Code"`
	Data struct {
		Status        string `json:"Status"` // Success, Queued, Processing, Failed
		TranscriptURL string `json:"TranscriptURL"`
	} `json:"Data"`
	Reason string `json:"Reason,omitempty"`
}

type transcriptDocument struct {
	Text       string `json:"text"`
	Utterances []struct {
		Speaker   string `json:"speaker"`
		Text      string `json:"text"`
		Sentiment string `json:"sentiment,omitempty"`
	} `json:"utterances"`
}

type Client struct {
	baseURL string
	client  *http.Client

	pollInterval time.Duration
	pollLimit    int
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      baseURL,
		client:       &http.Client{Timeout: 12 * time.Second},
		pollInterval: 1500 * time.Millisecond,
		pollLimit:    40,
	}
}

// SetTestTransport points the client at a test server and shortens polling.
func (c *Client) SetTestTransport(url string) {
	c.baseURL = url
	c.pollInterval = time.Millisecond
}

// Transcribe runs the full publish/poll/fetch flow for one audio source.
func (c *Client) Transcribe(ctx context.Context, source string) (types.Transcript, error) {
	log := logger.Component("transcription").WithField("source", source)

	if c.baseURL == "" {
		return types.Transcript{}, &Error{Source: source, Err: fmt.Errorf("TRANSCRIBE_URL not set")}
	}

	log.Info("starting transcription")

	mediaID, doneURL, err := c.publish(ctx, source)
	if err != nil {
		return types.Transcript{}, &Error{Source: source, Err: err}
	}

	if doneURL == "" {
		doneURL, err = c.pollUntilDone(ctx, mediaID, log)
		if err != nil {
			return types.Transcript{}, &Error{Source: source, Err: err}
		}
	}

	t, err := c.fetchDocument(ctx, source, doneURL)
	if err != nil {
		return types.Transcript{}, &Error{Source: source, Err: err}
	}
	log.WithField("utterances", len(t.Utterances)).Info("transcription complete")
	return t, nil
}

func (c *Client) publish(ctx context.Context, source string) (mediaID, doneURL string, err error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	w.WriteField("callRecordingLink", source)
	w.WriteField("speakerLabels", "true")
	w.WriteField("sentimentAnalysis", "true")
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &b)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp publishResponse
	if err := c.doJSON(ctx, req, &resp); err != nil {
		return "", "", err
	}
	if resp.Code != 200 {
		return "", "", fmt.Errorf("publish rejected: code=%d reason=%s", resp.Code, resp.Reason)
	}

	// Provider may have transcribed this recording before.
	if resp.Data.TranscriptURL != "" && strings.TrimSpace(resp.Data.Status) == "Success" {
		return "", resp.Data.TranscriptURL, nil
	}
	return resp.Data.MediaID, "", nil
}

func (c *Client) pollUntilDone(ctx context.Context, mediaID string, log *logrus.Entry) (string, error) {
	statusURL, err := url.Parse(c.baseURL + "/getstatus")
	if err != nil {
		return "", err
	}
	q := statusURL.Query()
	q.Set("mediaId", mediaID)
	statusURL.RawQuery = q.Encode()

	for i := 0; i < c.pollLimit; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL.String(), nil)
		if err != nil {
			return "", err
		}
		var s statusResponse
		if err := c.doJSON(ctx, req, &s); err != nil {
			log.WithError(err).Warn("status poll failed")
			continue
		}

		log.WithFields(logrus.Fields{"media_id": mediaID, "status": s.Data.Status}).Debug("polling transcription")

		switch s.Data.Status {
		case "Success":
			return s.Data.TranscriptURL, nil
		case "Queued", "Processing":
			continue
		case "Failed":
			return "", fmt.Errorf("transcription failed: %s", s.Reason)
		}
	}
	return "", fmt.Errorf("timeout: transcription did not complete")
}

func (c *Client) fetchDocument(ctx context.Context, source, docURL string) (types.Transcript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return types.Transcript{}, err
	}
	var doc transcriptDocument
	if err := c.doJSON(ctx, req, &doc); err != nil {
		return types.Transcript{}, err
	}

	t := types.Transcript{Source: source, Text: doc.Text}
	for _, u := range doc.Utterances {
		t.Utterances = append(t.Utterances, types.Utterance{
			Speaker:   u.Speaker,
			Text:      u.Text,
			Sentiment: u.Sentiment,
		})
	}
	if t.Text == "" {
		t.Text = t.FormatText()
	}
	return t, nil
}

// doJSON performs the request with retry on transport and 5xx failures and
// decodes the body into target.
func (c *Client) doJSON(ctx context.Context, req *http.Request, target any) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second

	var lastErr error
	op := func() error {
		if req.GetBody != nil {
			if body, err := req.GetBody(); err == nil {
				req.Body = body
			}
		}
		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", body)
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("client error: %s", body)
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("decode response: %w", err)
			return backoff.Permanent(lastErr)
		}
		lastErr = nil
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}
