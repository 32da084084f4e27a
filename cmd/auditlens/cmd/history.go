package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/auditlens/pkg/history"
	"github.com/lcalzada-xor/auditlens/pkg/models"
	"github.com/lcalzada-xor/auditlens/pkg/output"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or manage recent scans",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent scans, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recorded scan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		openHistory().Clear()
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Forget the scan of one URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := models.NormalizeTarget(args[0])
		if err != nil {
			return err
		}
		if !openHistory().Remove(target) {
			return fmt.Errorf("no scan of %s in history", target)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", target)
		return nil
	},
}

func openHistory() *history.History {
	return history.New(history.NewFileStore(cfg.HistoryPath()), newLogger())
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	format := output.FormatText
	if historyJSON {
		format = output.FormatJSON
	}
	fmt.Fprint(cmd.OutOrStdout(), output.FormatHistory(openHistory().All(), format))
	if historyJSON {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "Print history as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyRemoveCmd)
}
