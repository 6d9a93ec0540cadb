package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := a.analyzerClient().Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("server %s unavailable: %w", a.v.GetString(keyServer), err)
			}
			_, err = fmt.Fprintf(a.out, "%s: %s (%s)\n", a.v.GetString(keyServer), health.Status, health.Timestamp)
			return err
		},
	}
}
