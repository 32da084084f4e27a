// Package scanner sequences an audit: validate, retrieve, parse, run the
// check catalog and score.
package scanner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/lcalzada-xor/auditlens/pkg/checks"
	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/history"
	"github.com/lcalzada-xor/auditlens/pkg/logger"
	"github.com/lcalzada-xor/auditlens/pkg/models"
	"github.com/lcalzada-xor/auditlens/pkg/network"
	"github.com/lcalzada-xor/auditlens/pkg/scorer"
)

// ErrBusy is returned when an audit is already in flight on the Auditor.
var ErrBusy = errors.New("an audit is already running")

// Fetcher retrieves page HTML. *network.Retriever implements it.
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// ProgressFunc receives advisory progress: zero-based step, total steps, label.
type ProgressFunc func(step, total int, label string)

// Fixed progress labels around the per-batch steps.
const (
	StepConnect = "Connecting to server..."
	StepFetch   = "Fetching page content..."
	StepParse   = "Parsing HTML document..."
	StepScore   = "Computing final score..."
)

// Steps lists every progress label in order.
func Steps() []string {
	steps := []string{StepConnect, StepFetch, StepParse}
	for _, b := range checks.Catalog() {
		steps = append(steps, b.Label)
	}
	return append(steps, StepScore)
}

// Auditor runs one audit at a time.
type Auditor struct {
	fetcher Fetcher
	history *history.History
	logger  *logger.Logger

	// StepDelay pauses between progress checkpoints. Zero by default.
	StepDelay time.Duration

	guard *semaphore.Weighted
	mu    sync.Mutex
	state State
	now   func() time.Time
}

// NewAuditor creates an Auditor. hist may be nil to skip history.
func NewAuditor(fetcher Fetcher, hist *history.History, log *logger.Logger) *Auditor {
	if log == nil {
		log = logger.Discard()
	}
	return &Auditor{
		fetcher: fetcher,
		history: hist,
		logger:  log.With("area", "audit"),
		guard:   semaphore.NewWeighted(1),
		state:   Idle,
		now:     time.Now,
	}
}

// NewClient builds the HTTP client described by cfg. Auditors that share
// one client also share its rate limit.
func NewClient(cfg *config.Config, concurrency int) (*network.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := network.DefaultOptions()
	opts.Timeout = timeout
	opts.Proxy = cfg.Proxy
	opts.RateLimit = cfg.RateLimit
	if concurrency > 0 {
		opts.Concurrency = concurrency
	}
	if cfg.UserAgent != "" {
		opts.UserAgent = cfg.UserAgent
	}
	return network.NewClient(opts), nil
}

// NewAuditorWithClient wires the strategies of cfg onto an existing client.
func NewAuditorWithClient(cfg *config.Config, client *network.Client, hist *history.History, log *logger.Logger) (*Auditor, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	retriever := network.NewRetriever(
		client,
		network.StrategiesFromConfig(cfg.Strategies),
		timeout,
		log,
	)
	return NewAuditor(retriever, hist, log), nil
}

// NewAuditorFromConfig wires the retrieval stack described by cfg on a
// client of its own.
func NewAuditorFromConfig(cfg *config.Config, hist *history.History, log *logger.Logger) (*Auditor, error) {
	client, err := NewClient(cfg, 0)
	if err != nil {
		return nil, err
	}
	return NewAuditorWithClient(cfg, client, hist, log)
}

// State returns the current lifecycle state.
func (a *Auditor) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Auditor) transition(to State) {
	a.mu.Lock()
	from := a.state
	a.state = to
	a.mu.Unlock()
	a.logger.Debug("state", "from", from, "to", to)
}

// Audit normalizes raw, fetches the page and evaluates it. A call made while
// another audit runs returns ErrBusy at once and does nothing. Retrieval and
// parse errors are returned unchanged and nothing is scored.
func (a *Auditor) Audit(ctx context.Context, raw string, progress ProgressFunc) (*models.ScanResult, error) {
	if !a.guard.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer a.guard.Release(1)

	target, err := models.NormalizeTarget(raw)
	if err != nil {
		return nil, err
	}

	steps := Steps()
	step := 0
	tick := func() error {
		if progress != nil {
			progress(step, len(steps), steps[step])
		}
		step++
		return a.pause(ctx)
	}
	fail := func(err error) (*models.ScanResult, error) {
		a.transition(Failed)
		a.logger.Debug("audit failed", "url", target, "err", err)
		return nil, err
	}

	a.transition(Retrieving)
	if err := tick(); err != nil {
		return fail(err)
	}
	if err := tick(); err != nil {
		return fail(err)
	}
	src, err := a.fetcher.FetchHTML(ctx, target)
	if err != nil {
		return fail(err)
	}

	a.transition(Parsing)
	if err := tick(); err != nil {
		return fail(err)
	}
	doc, err := document.Parse(src)
	if err != nil {
		return fail(err)
	}

	a.transition(Evaluating)
	in := &checks.Input{Doc: doc, URL: target, HTML: src}
	var findings []models.Finding
	for _, b := range checks.Catalog() {
		if err := tick(); err != nil {
			return fail(err)
		}
		findings = append(findings, checks.RunBatch(b, in)...)
	}

	if err := tick(); err != nil {
		return fail(err)
	}
	result := a.score(target, findings)
	a.transition(Scored)
	a.logger.Debug("audit scored", "url", target, "score", result.Score, "grade", result.Grade.Label)

	if a.history != nil {
		a.history.Add(result.Record())
	}
	return result, nil
}

func (a *Auditor) pause(ctx context.Context) error {
	if a.StepDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(a.StepDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (a *Auditor) score(target string, findings []models.Finding) *models.ScanResult {
	s := scorer.Compute(findings)
	return &models.ScanResult{
		ID:        uuid.NewString(),
		URL:       target,
		Findings:  findings,
		Score:     s,
		Grade:     scorer.GradeFor(s),
		ScannedAt: a.now().UTC(),
	}
}

// Evaluate scores already-fetched HTML for url without any I/O or history.
func Evaluate(src, url string) (*models.ScanResult, error) {
	doc, err := document.Parse(src)
	if err != nil {
		return nil, err
	}
	findings := checks.RunAll(&checks.Input{Doc: doc, URL: url, HTML: src})
	s := scorer.Compute(findings)
	return &models.ScanResult{
		ID:        uuid.NewString(),
		URL:       url,
		Findings:  findings,
		Score:     s,
		Grade:     scorer.GradeFor(s),
		ScannedAt: time.Now().UTC(),
	}, nil
}
