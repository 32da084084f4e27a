package network

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/segmentio/encoding/json"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/logger"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// maxBodyBytes caps how much of a response is read. Anything past it is
// dropped and the audit runs on the prefix.
const maxBodyBytes = 10 << 20

// Retriever fetches page HTML by trying strategies in order.
type Retriever struct {
	client     *Client
	strategies []Strategy
	timeout    time.Duration
	minBody    int
	logger     *logger.Logger
}

// NewRetriever creates a retriever. A zero timeout uses config.DefaultTimeout.
func NewRetriever(client *Client, strategies []Strategy, timeout time.Duration, log *logger.Logger) *Retriever {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	if len(strategies) == 0 {
		strategies = []Strategy{Direct}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Retriever{
		client:     client,
		strategies: strategies,
		timeout:    timeout,
		minBody:    config.MinBodyLength,
		logger:     log.With("area", "retrieval"),
	}
}

// FetchHTML returns the first usable page body. Strategies run strictly one
// after another and the first success stops the chain. When all of them fail
// the result is a *models.RetrievalError listing each reason in order.
func (r *Retriever) FetchHTML(ctx context.Context, target string) (string, error) {
	attempts := make([]models.AttemptError, 0, len(r.strategies))

	for _, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		start := time.Now()
		body, reason := r.attempt(ctx, s, target)
		elapsed := time.Since(start).Round(time.Millisecond)

		if reason == "" {
			r.logger.Debug("attempt succeeded", "strategy", s.Name, "bytes", len(body), "elapsed", elapsed)
			return body, nil
		}

		// The caller gave up; later strategies would fail the same way.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		r.logger.Debug("attempt failed", "strategy", s.Name, "reason", reason, "elapsed", elapsed)
		attempts = append(attempts, models.AttemptError{Strategy: s.Name, Reason: reason})
	}

	return "", &models.RetrievalError{URL: target, Attempts: attempts}
}

// attempt runs one strategy under its own deadline. An empty reason means success.
func (r *Retriever) attempt(ctx context.Context, s Strategy, target string) (string, string) {
	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, s.Rewrite(target), nil)
	if err != nil {
		return "", err.Error()
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", failureReason(actx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", failureReason(actx, err)
	}
	if len(raw) > maxBodyBytes {
		raw = raw[:maxBodyBytes]
		r.logger.Warn("%s: response body truncated to %d bytes", s.Name, maxBodyBytes)
	}

	html := unwrapEnvelope(raw, isJSON(resp.Header.Get("Content-Type")))
	if utf8.RuneCountInString(html) <= r.minBody {
		return "", "Empty response"
	}
	return html, ""
}

func failureReason(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if uerr.Timeout() {
			return "Timeout"
		}
		return uerr.Err.Error()
	}
	if err.Error() == "" {
		return "Network error"
	}
	return err.Error()
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mt == "application/json"
}

// unwrapEnvelope extracts the page from relay JSON envelopes. A JSON response
// without any envelope field yields "". A text body that merely looks like
// JSON is kept as-is when it does not decode or carries no envelope field.
func unwrapEnvelope(raw []byte, declaredJSON bool) string {
	trimmed := bytes.TrimSpace(raw)
	if !declaredJSON && !bytes.HasPrefix(trimmed, []byte("{")) {
		return string(raw)
	}

	var envelope map[string]any
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		if declaredJSON {
			return ""
		}
		return string(raw)
	}

	for _, field := range config.EnvelopeFields {
		if s, ok := envelope[field].(string); ok && s != "" {
			return s
		}
	}
	if declaredJSON {
		return ""
	}
	return string(raw)
}
