package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/history"
	"github.com/lcalzada-xor/auditlens/pkg/logger"
	"github.com/lcalzada-xor/auditlens/pkg/output"
)

// relayServer serves a small page for every target except hosts containing
// "down", which answer 503.
func relayServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if strings.Contains(target, "down") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, `<html lang="en"><head><title>Page for %s</title></head><body><main><h1>Hello</h1><p>%s</p></main></body></html>`,
			target, strings.Repeat("Plain words make a plain page. ", 40))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRunner(t *testing.T, srv *httptest.Server, format string) (*Runner, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Strategies = []config.StrategyConfig{{Name: "relay", Template: srv.URL + "/?url={url}"}}
	cfg.HistoryFile = filepath.Join(t.TempDir(), "history.json")

	opts := DefaultOptions()
	opts.Config = cfg
	opts.Concurrency = 2
	opts.OutputFormat = format
	opts.Silent = true

	r := NewRunner(opts)
	var stdout bytes.Buffer
	r.Stdout = &stdout
	r.Stderr = io.Discard
	r.Stdin = strings.NewReader("")
	return r, &stdout
}

// decodeReports splits concatenated indented reports; each ends with a
// closing brace at column zero.
func decodeReports(t *testing.T, data []byte) []output.Report {
	t.Helper()
	var reports []output.Report
	for _, chunk := range strings.SplitAfter(string(data), "\n}\n") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		var rep output.Report
		if err := json.Unmarshal([]byte(chunk), &rep); err != nil {
			t.Fatalf("decoding report: %v", err)
		}
		reports = append(reports, rep)
	}
	return reports
}

func TestRun_Targets(t *testing.T) {
	r, stdout := testRunner(t, relayServer(t), output.FormatJSON)

	stats, err := r.Run(context.Background(), []string{"example.com", "http://example.org/about"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Total != 2 || stats.Scored != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}

	reports := decodeReports(t, stdout.Bytes())
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	urls := map[string]bool{}
	for _, rep := range reports {
		urls[rep.URL] = true
		if rep.Tool != config.Tool || len(rep.Checks) == 0 {
			t.Errorf("unexpected report %+v", rep)
		}
	}
	if !urls["https://example.com"] || !urls["https://example.org/about"] {
		t.Errorf("reports for %v", urls)
	}

	recs := history.New(history.NewFileStore(r.options.Config.HistoryFile), logger.Discard()).All()
	if len(recs) != 2 {
		t.Errorf("history has %d records, want 2", len(recs))
	}
}

func TestRun_SharedRateLimit(t *testing.T) {
	var (
		mu   sync.Mutex
		hits []time.Time
	)
	page := relayServer(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		mu.Unlock()
		page.Config.Handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	r, _ := testRunner(t, srv, output.FormatJSON)
	r.options.Concurrency = 4
	r.options.Config.RateLimit = 2

	targets := []string{"a.example.com", "b.example.com", "c.example.com", "d.example.com"}
	stats, err := r.Run(context.Background(), targets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Scored != 4 {
		t.Fatalf("stats = %+v", stats)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(hits) != 4 {
		t.Fatalf("relay saw %d requests, want 4", len(hits))
	}
	first, last := hits[0], hits[0]
	for _, h := range hits {
		if h.Before(first) {
			first = h
		}
		if h.After(last) {
			last = h
		}
	}
	// Two requests fit the initial bucket; the other two wait 0.5s each.
	if span := last.Sub(first); span < 800*time.Millisecond {
		t.Errorf("4 requests at 2 rps across 4 workers took %v, want at least 800ms", span)
	}
}

func TestRun_Stdin(t *testing.T) {
	r, stdout := testRunner(t, relayServer(t), output.FormatText)
	r.Stdin = strings.NewReader("example.com\n\n  down.example.net  \nnot-a-domain\n")

	stats, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Total != 3 || stats.Scored != 1 || stats.Failed != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if strings.Count(stdout.String(), "AuditLens -- SEO Audit Report") != 1 {
		t.Errorf("expected one text report, got:\n%s", stdout.String())
	}
}

func TestRun_NoHistory(t *testing.T) {
	r, _ := testRunner(t, relayServer(t), output.FormatText)
	r.options.NoHistory = true

	if _, err := r.Run(context.Background(), []string{"example.com"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.History(logger.Discard()) != nil {
		t.Error("History should be nil when disabled")
	}
	recs := history.New(history.NewFileStore(r.options.Config.HistoryFile), logger.Discard()).All()
	if len(recs) != 0 {
		t.Errorf("history written despite NoHistory: %v", recs)
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	r, _ := testRunner(t, relayServer(t), "xml")
	if _, err := r.Run(context.Background(), []string{"example.com"}); err == nil {
		t.Error("expected error for unknown format")
	}

	r, _ = testRunner(t, relayServer(t), output.FormatText)
	r.options.Config.Timeout = "soon"
	if _, err := r.Run(context.Background(), []string{"example.com"}); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	r, stdout := testRunner(t, relayServer(t), output.FormatText)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, []string{"example.com", "example.org"})
	if err == nil {
		t.Error("expected context error")
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected output after cancel: %q", stdout.String())
	}
}
