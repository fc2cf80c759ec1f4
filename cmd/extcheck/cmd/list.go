package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devboost-pro/extcheck/internal/checklist"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the checks in run order",
		Long:  `List the check IDs accepted by --only, with their report names.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range checklist.DefaultChecks(nil) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", c.ID, c.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
