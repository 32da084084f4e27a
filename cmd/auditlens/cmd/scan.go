package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/runner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [targets...]",
	Short: "Audit one or more pages (default command)",
	Args:  cobra.ArbitraryArgs,
	RunE:  runScan,
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", config.DefaultConcurrency, "Number of concurrent workers")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", config.DefaultOutput, "Output format: text, human, json")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record scans in history")
}

func init() {
	addScanFlags(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	opts := runner.DefaultOptions()
	opts.Config = cfg
	opts.Concurrency = concurrency
	opts.OutputFormat = cfg.Output
	opts.NoHistory = noHistory
	opts.Verbose = verbosity >= 1
	opts.VeryVerbose = verbosity >= 2
	opts.Silent = silent

	if !silent && len(args) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), banner())
	}

	r := runner.NewRunner(opts)
	r.Stdin = cmd.InOrStdin()
	r.Stdout = cmd.OutOrStdout()

	stats, err := r.Run(cmd.Context(), args)
	if err != nil {
		return err
	}
	if stats.Total == 0 {
		return fmt.Errorf("no targets given; pass a domain or pipe one per line on stdin")
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d audits failed", stats.Failed, stats.Total)
	}
	return nil
}
