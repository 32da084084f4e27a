package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/auditlens/pkg/history"
	"github.com/lcalzada-xor/auditlens/pkg/mcpserver"
	"github.com/lcalzada-xor/auditlens/pkg/scanner"
)

var (
	mcpAddr string
	mcpPath string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the seo_audit tool over MCP (stdio by default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; logs stay on stderr.
		log := newLogger()

		var hist *history.History
		if !noHistory {
			hist = history.New(history.NewFileStore(cfg.HistoryPath()), log)
		}
		auditor, err := scanner.NewAuditorFromConfig(cfg, hist, log)
		if err != nil {
			return err
		}
		srv := mcpserver.New(auditor, log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if mcpAddr != "" {
			return srv.RunHTTP(ctx, mcpAddr, mcpPath)
		}
		return srv.RunStdio(ctx)
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio (e.g. :8765)")
	mcpCmd.Flags().StringVar(&mcpPath, "path", "/mcp", "HTTP path for the MCP endpoint")
	mcpCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record scans in history")
}
