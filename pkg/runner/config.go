package runner

import (
	"github.com/lcalzada-xor/auditlens/pkg/config"
)

// Options holds all configuration options for the runner
type Options struct {
	// Retrieval, history and default output settings.
	Config *config.Config

	// Scanning
	Concurrency int
	NoHistory   bool

	// Output
	OutputFormat string
	Verbose      bool
	VeryVerbose  bool
	Silent       bool
}

// DefaultOptions returns a new Options struct with default values
func DefaultOptions() *Options {
	cfg := config.DefaultConfig()
	return &Options{
		Config:       cfg,
		Concurrency:  config.DefaultConcurrency,
		OutputFormat: cfg.Output,
	}
}

func (o *Options) verboseLevel() int {
	switch {
	case o.VeryVerbose:
		return 2
	case o.Verbose:
		return 1
	}
	return 0
}
