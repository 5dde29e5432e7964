package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	config := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "skimread [flags] [file ...]",
		Short: "A filtering line reader for text files",
		Long: `skimread reads text files line by line, drops the lines that match the
configured skip rules, and forwards the rest to a sink. Reading positions can
be checkpointed so that interrupted runs resume where they left off.

Examples:
  # Read a file, dropping empty lines and comments
  skimread --skip-empty --skip-prefixes '#' app.log

  # Filter stdin
  journalctl -f | skimread --skip-containing DEBUG

  # Resume from the last checkpoint on restart
  skimread --resume --db-path /var/lib/skimread/skimread.db /var/log/app/*.log

  # Forward filtered lines to ClickHouse (sink settings come from the config file)
  skimread --config skimread.yaml`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadFromViper(cmd); err != nil {
				return err
			}
			return config.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReader(config, args)
		},
	}

	// Setup flags from config
	config.SetupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
