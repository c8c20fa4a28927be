package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/metric-imager/infrastructure/accounts"
	"github.com/vfg2006/metric-imager/internal/usecases/selecting"
)

func newConfigCommand() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "config <accounts.toml>",
		Short: "Validate and display the accounts config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountConfigs, err := accounts.Load(args[0])
			if err != nil {
				return err
			}

			selected := selecting.Filter(accountConfigs, pattern)
			for _, account := range selected {
				fmt.Fprintln(cmd.OutOrStdout(), account)
			}
			if pattern != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d accounts match %q\n", len(selected), len(accountConfigs), pattern)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "f", "", "only show accounts whose namespace contains this substring")

	return cmd
}
