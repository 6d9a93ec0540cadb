package cli

import (
	"fmt"
	"strings"

	"go-land-inspector/internal/presentation"

	"github.com/spf13/cobra"
)

const summaryWidth = 48

func (a *App) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved analyses",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved analyses, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				history, err := a.historyRepo()
				if err != nil {
					return err
				}
				entries, err := history.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, err = fmt.Fprintln(a.out, "No saved analyses.")
					return err
				}
				for i, e := range entries {
					classification := presentation.NotAvailable
					if e.Scores != nil && e.Scores.Classification != "" {
						classification = presentation.DisplayClassification(e.Scores.Classification)
					}
					timestamp := presentation.NotAvailable
					if e.Timestamp != "" {
						timestamp = presentation.FormatTimestamp(e.Timestamp)
					}
					if _, err := fmt.Fprintf(a.out, "%2d. %-23s %7s  %-20s %s\n",
						i+1, timestamp, presentation.FormatScore(e.OverallScore()),
						classification, truncate(e.LocationSummary, summaryWidth)); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <n>",
			Short: "Print a saved analysis",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := parseEntry(args[0])
				if err != nil {
					return err
				}
				history, err := a.historyRepo()
				if err != nil {
					return err
				}
				report, err := history.Get(cmd.Context(), index)
				if err != nil {
					return err
				}
				return presentation.RenderText(a.out, report)
			},
		},
		&cobra.Command{
			Use:   "delete <n>",
			Short: "Remove a saved analysis",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := parseEntry(args[0])
				if err != nil {
					return err
				}
				history, err := a.historyRepo()
				if err != nil {
					return err
				}
				if err := history.Delete(cmd.Context(), index); err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.out, "Deleted entry %d.\n", index+1)
				return err
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every saved analysis",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				history, err := a.historyRepo()
				if err != nil {
					return err
				}
				if err := history.Clear(cmd.Context()); err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.out, "History cleared.")
				return err
			},
		},
	)
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
