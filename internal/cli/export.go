package cli

import (
	"fmt"

	"go-land-inspector/internal/presentation"

	"github.com/spf13/cobra"
)

func (a *App) exportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <n>",
		Short: "Export a saved analysis as a PDF report",
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

			path, err := presentation.SavePDF(out, report)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", presentation.DefaultPDFName, "output file")
	return cmd
}
