package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// RootCommand builds the landscan command tree.
func (a *App) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "landscan",
		Short:        "Assess land parcels for development from aerial imagery",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.readConfigFile(configPath)
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/landscan/landscan.yaml)")
	flags.String("server", a.v.GetString(keyServer), "analysis API base URL")
	flags.Duration("timeout", a.timeout(), "request timeout")
	flags.String("history-backend", a.v.GetString(keyHistoryBackend), "history storage: file, azure or memory")
	flags.String("history-dir", a.v.GetString(keyHistoryDir), "directory for file history storage")

	_ = a.v.BindPFlag(keyServer, flags.Lookup("server"))
	_ = a.v.BindPFlag(keyTimeout, flags.Lookup("timeout"))
	_ = a.v.BindPFlag(keyHistoryBackend, flags.Lookup("history-backend"))
	_ = a.v.BindPFlag(keyHistoryDir, flags.Lookup("history-dir"))

	root.AddCommand(
		a.analyzeCommand(),
		a.historyCommand(),
		a.exportCommand(),
		a.healthCommand(),
	)
	return root
}

// parseEntry converts a 1-based entry number into a history index.
func parseEntry(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid entry number %q: must be a positive integer", arg)
	}
	return n - 1, nil
}
