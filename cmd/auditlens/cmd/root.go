// Package cmd holds the auditlens command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/logger"
)

var (
	cfgFile     string
	verbosity   int
	silent      bool
	noHistory   bool
	historyFile string

	concurrency int
	timeout     string
	proxy       string
	userAgent   string
	rateLimit   float64
	outputFmt   string

	cfg *config.Config
)

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

func banner() string {
	return bannerStyle.Render("AuditLens") + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(config.Version+" | "+config.Author)
}

var rootCmd = &cobra.Command{
	Use:   "auditlens [targets...]",
	Short: "Audit web pages for on-page SEO",
	Long: banner() + `

auditlens fetches a page, runs 32 on-page SEO checks over it
and prints a weighted score with advice for every finding.
Targets come from the arguments, or one per line on stdin.`,
	Example: `  auditlens example.com
  auditlens -o json example.com > report.json
  cat sites.txt | auditlens -c 8 -o human`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		path := cfgFile
		if path == "" {
			path = config.DefaultConfigFile()
		}
		loaded, err := config.Load(path)
		if err != nil {
			if cfgFile != "" {
				return err
			}
			newLogger().Warn("could not load config, using defaults: %v", err)
			loaded = config.DefaultConfig()
		}
		cfg = loaded
		applyOverrides(cmd, cfg)
		return cfg.Validate()
	},
	Args: cobra.ArbitraryArgs,
	RunE: runScan,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger() *logger.Logger {
	if silent {
		return logger.Discard()
	}
	return logger.NewLogger(verbosity)
}

// applyOverrides copies explicitly set flags over file values.
func applyOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		c.Timeout = timeout
	}
	if flags.Changed("proxy") {
		c.Proxy = proxy
	}
	if flags.Changed("user-agent") {
		c.UserAgent = userAgent
	}
	if flags.Changed("rate-limit") {
		c.RateLimit = rateLimit
	}
	if flags.Changed("output") {
		c.Output = outputFmt
	}
	if flags.Changed("history-file") {
		c.HistoryFile = historyFile
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", fmt.Sprintf("Config file (default %s)", config.DefaultConfigFile()))
	pf.CountVarP(&verbosity, "verbose", "v", "Verbose output (-vv for more detail)")
	pf.BoolVarP(&silent, "silent", "s", false, "Silent mode (suppress logs and errors)")
	pf.StringVar(&historyFile, "history-file", "", "History file (overrides config)")
	pf.StringVarP(&timeout, "timeout", "t", config.DefaultTimeout.String(), "Per-attempt fetch timeout")
	pf.StringVarP(&proxy, "proxy", "x", "", "Proxy URL (e.g. http://127.0.0.1:8080)")
	pf.StringVarP(&userAgent, "user-agent", "A", config.DefaultUserAgent, "User-Agent header")
	pf.Float64VarP(&rateLimit, "rate-limit", "r", 0, "Max requests per second (0 = unlimited)")

	addScanFlags(rootCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetOut(os.Stdout)
}
