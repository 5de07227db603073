package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docscraper/docscraper/internal/config"
)

// newValidateCmd creates the validate command: parse and validate
// configuration files without touching the network, for CI checks.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config file...]",
		Short: "Validate configuration files without crawling",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				cfg, err := config.LoadFile(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "invalid  %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok       %s (index %s, %d selector set(s))\n",
					path, cfg.IndexUID, len(cfg.Selectors))
			}
			if failed > 0 {
				return fmt.Errorf("%d configuration file(s) invalid", failed)
			}
			return nil
		},
	}
}
