// Package runner audits one or many targets from the command line.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/history"
	"github.com/lcalzada-xor/auditlens/pkg/logger"
	"github.com/lcalzada-xor/auditlens/pkg/output"
	"github.com/lcalzada-xor/auditlens/pkg/scanner"
)

// Stats summarises a run.
type Stats struct {
	Total  int
	Scored int
	Failed int
}

// Runner handles the execution of the scanning process
type Runner struct {
	options *Options

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a new Runner instance
func NewRunner(options *Options) *Runner {
	if options.Config == nil {
		options.Config = config.DefaultConfig()
	}
	return &Runner{
		options: options,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// History opens the configured history, or nil when history is disabled.
func (r *Runner) History(log *logger.Logger) *history.History {
	if r.options.NoHistory {
		return nil
	}
	return history.New(history.NewFileStore(r.options.Config.HistoryPath()), log)
}

func (r *Runner) logger() *logger.Logger {
	if r.options.Silent {
		return logger.NewLoggerWithWriter(0, io.Discard)
	}
	return logger.NewLoggerWithWriter(r.options.verboseLevel(), r.Stderr)
}

// showProgress reports whether a live progress line fits the terminal.
func (r *Runner) showProgress(targets int) bool {
	if r.options.Silent || targets != 1 {
		return false
	}
	f, ok := r.Stderr.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Run audits targets, or stdin lines when targets is empty. Reports are
// written to Stdout as each audit finishes.
func (r *Runner) Run(ctx context.Context, targets []string) (Stats, error) {
	log := r.logger()

	if !output.ValidFormat(r.options.OutputFormat) {
		return Stats{}, fmt.Errorf("unknown output format %q (want one of %s)",
			r.options.OutputFormat, strings.Join(output.Formats, ", "))
	}
	if err := r.options.Config.Validate(); err != nil {
		return Stats{}, err
	}

	// Create root context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Warn("Received interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if !r.options.Silent && r.options.verboseLevel() >= 1 {
		log.Section(fmt.Sprintf("%s %s", config.Tool, config.Version))
		log.Detail("Concurrency: %d workers", r.options.Concurrency)
		log.Detail("Timeout: %s", r.options.Config.Timeout)
		log.Detail("Strategies: %d", max(1, len(r.options.Config.Strategies)))
	}

	hist := r.History(log)
	progress := r.showProgress(len(targets))

	jobs := make(chan string)
	var (
		wg       sync.WaitGroup
		stats    Stats
		statsMu  sync.Mutex
		outputMu sync.Mutex
	)

	workers := max(1, r.options.Concurrency)
	// One client for the whole run so rate_limit holds across workers.
	client, err := scanner.NewClient(r.options.Config, workers)
	if err != nil {
		return Stats{}, err
	}
	for i := 0; i < workers; i++ {
		// One Auditor per worker; each only ever runs one audit at a time.
		auditor, err := scanner.NewAuditorWithClient(r.options.Config, client, hist, log)
		if err != nil {
			cancel()
			wg.Wait()
			return stats, err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case target, ok := <-jobs:
					if !ok {
						return
					}

					var onProgress scanner.ProgressFunc
					if progress {
						onProgress = func(step, total int, label string) {
							fmt.Fprintf(r.Stderr, "\r\x1b[2K[%d/%d] %s", step+1, total, label)
						}
					}

					log.V("Scanning: %s", target)
					res, err := auditor.Audit(ctx, target, onProgress)
					if progress {
						fmt.Fprint(r.Stderr, "\r\x1b[2K")
					}

					statsMu.Lock()
					if err != nil {
						stats.Failed++
					} else {
						stats.Scored++
					}
					statsMu.Unlock()

					if err != nil {
						// Don't log error if it's just context canceled
						if !errors.Is(err, context.Canceled) {
							log.Error("%s: %v", target, err)
						}
						continue
					}

					out := output.Format(res, r.options.OutputFormat)
					outputMu.Lock()
					fmt.Fprintln(r.Stdout, out)
					outputMu.Unlock()
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		send := func(t string) bool {
			t = strings.TrimSpace(t)
			if t == "" {
				return true
			}
			statsMu.Lock()
			stats.Total++
			statsMu.Unlock()
			select {
			case jobs <- t:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if len(targets) > 0 {
			for _, t := range targets {
				if !send(t) {
					return
				}
			}
			return
		}

		lines := bufio.NewScanner(r.Stdin)
		for lines.Scan() {
			if !send(lines.Text()) {
				return
			}
		}
	}()

	wg.Wait()

	statsMu.Lock()
	defer statsMu.Unlock()
	if stats.Total > 1 {
		log.Info("Scan complete: %d targets, %d scored, %d failed", stats.Total, stats.Scored, stats.Failed)
	}
	return stats, ctx.Err()
}
