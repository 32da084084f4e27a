package scanner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lcalzada-xor/auditlens/pkg/checks"
	"github.com/lcalzada-xor/auditlens/pkg/history"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// fakeFetcher returns a fixed page or error and counts calls.
type fakeFetcher struct {
	mu    sync.Mutex
	html  string
	err   error
	calls int
	urls  []string

	entered chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.urls = append(f.urls, url)
	f.mu.Unlock()

	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.html, f.err
}

func thinPage() string {
	body := strings.TrimSpace(strings.Repeat("lorem ", 50))
	return "<html><head></head><body><p>" + body + "</p></body></html>"
}

func richPage() string {
	return `<!DOCTYPE html><html lang="en"><head>
<meta charset="utf-8">
<title>Handmade Oak Furniture for Small Homes</title>
<meta name="description" content="Solid oak tables, shelves and benches built to order for compact living spaces, with free delivery and a ten year workmanship guarantee.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="canonical" href="https://example.com/">
</head><body><main><h1>Oak furniture</h1><p>` + strings.Repeat("Our tables are built by hand. ", 60) + `</p></main></body></html>`
}

func TestEvaluate_ThinInsecurePage(t *testing.T) {
	result, err := Evaluate(thinPage(), "http://example.com")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	want := map[string]models.Status{
		"title":   models.StatusFail,
		"desc":    models.StatusFail,
		"h1":      models.StatusFail,
		"https":   models.StatusFail,
		"content": models.StatusFail,
	}
	for _, f := range result.Findings {
		if status, ok := want[f.ID]; ok && f.Status != status {
			t.Errorf("%s: status = %s, want %s", f.ID, f.Status, status)
		}
	}
	if result.Score >= 35 {
		t.Errorf("score = %d, want < 35", result.Score)
	}
	if result.Grade.Label != "Critical" {
		t.Errorf("grade = %q, want Critical", result.Grade.Label)
	}
	if len(result.Findings) != len(checks.All()) {
		t.Errorf("findings = %d, want one per check (%d)", len(result.Findings), len(checks.All()))
	}
}

func TestAudit_Success(t *testing.T) {
	fetcher := &fakeFetcher{html: richPage()}
	hist := history.New(history.NewMemoryStore(), nil)
	a := NewAuditor(fetcher, hist, nil)

	var labels []string
	var totals []int
	result, err := a.Audit(context.Background(), "http://example.com", func(step, total int, label string) {
		if step != len(labels) {
			t.Errorf("step %d reported out of order (expected %d)", step, len(labels))
		}
		labels = append(labels, label)
		totals = append(totals, total)
	})
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}

	if fetcher.urls[0] != "https://example.com" {
		t.Errorf("fetched %q, want normalized https URL", fetcher.urls[0])
	}
	if result.URL != "https://example.com" {
		t.Errorf("result URL = %q", result.URL)
	}
	if result.ID == "" {
		t.Error("expected a result ID")
	}
	if a.State() != Scored {
		t.Errorf("state = %s, want scored", a.State())
	}

	steps := Steps()
	if len(steps) != 12 {
		t.Fatalf("expected 12 progress steps, got %d", len(steps))
	}
	if strings.Join(labels, "|") != strings.Join(steps, "|") {
		t.Errorf("progress labels = %v, want %v", labels, steps)
	}
	for _, total := range totals {
		if total != 12 {
			t.Errorf("total = %d, want 12", total)
		}
	}
	if labels[0] != StepConnect || labels[len(labels)-1] != StepScore {
		t.Errorf("unexpected first/last labels %q %q", labels[0], labels[len(labels)-1])
	}

	records := hist.All()
	if len(records) != 1 || records[0].URL != result.URL || records[0].Score != result.Score {
		t.Errorf("history = %+v, want the scanned result", records)
	}
}

func TestAudit_ValidationBeforeFetch(t *testing.T) {
	fetcher := &fakeFetcher{html: richPage()}
	a := NewAuditor(fetcher, nil, nil)

	_, err := a.Audit(context.Background(), "not a domain", nil)
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times on invalid input", fetcher.calls)
	}
	if a.State() != Idle {
		t.Errorf("state = %s, want idle", a.State())
	}
}

func TestAudit_RetrievalFailure(t *testing.T) {
	retrievalErr := &models.RetrievalError{
		URL:      "https://example.com",
		Attempts: []models.AttemptError{{Strategy: "direct", Reason: "HTTP 503"}},
	}
	hist := history.New(history.NewMemoryStore(), nil)
	a := NewAuditor(&fakeFetcher{err: retrievalErr}, hist, nil)

	var labels []string
	result, err := a.Audit(context.Background(), "example.com", func(_, _ int, label string) {
		labels = append(labels, label)
	})
	if result != nil {
		t.Errorf("expected no result, got %+v", result)
	}
	if err != retrievalErr {
		t.Errorf("expected the retrieval error unchanged, got %v", err)
	}
	if a.State() != Failed {
		t.Errorf("state = %s, want failed", a.State())
	}
	for _, l := range labels {
		if l == StepParse || l == StepScore {
			t.Errorf("progress reached %q after a failed fetch", l)
		}
	}
	if len(hist.All()) != 0 {
		t.Error("failed audit must not be recorded")
	}
}

func TestAudit_BusyGuard(t *testing.T) {
	fetcher := &fakeFetcher{
		html:    richPage(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	a := NewAuditor(fetcher, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := a.Audit(context.Background(), "example.com", nil)
		done <- err
	}()

	<-fetcher.entered
	if st := a.State(); !st.Active() || st != Retrieving {
		t.Errorf("state = %s, want retrieving", a.State())
	}
	if _, err := a.Audit(context.Background(), "example.org", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("second audit error = %v, want ErrBusy", err)
	}

	close(fetcher.release)
	if err := <-done; err != nil {
		t.Fatalf("first audit: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}

	// A finished auditor accepts the next audit.
	fetcher.entered, fetcher.release = nil, nil
	if _, err := a.Audit(context.Background(), "example.org", nil); err != nil {
		t.Errorf("follow-up audit: %v", err)
	}
}

func TestAudit_StepDelayHonoursCancel(t *testing.T) {
	a := NewAuditor(&fakeFetcher{html: richPage()}, nil, nil)
	a.StepDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Audit(ctx, "example.com", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if a.State() != Failed {
		t.Errorf("state = %s, want failed", a.State())
	}
}

func TestState_String(t *testing.T) {
	if Evaluating.String() != "evaluating" || State(99).String() != "unknown" {
		t.Error("unexpected state names")
	}
	if Idle.Active() || Scored.Active() || !Parsing.Active() {
		t.Error("unexpected Active results")
	}
}
