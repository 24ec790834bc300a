package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kinetic/internal/application"
	"kinetic/internal/application/commands"
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Check the ledger for integrity violations",
	Long: `Verify the invariants the reconciler depends on: unique well-formed
ids, no resurrected tombstones, no duplicate structural keys, two-way
parent/child links, and no bucket tags on completed objects.

Exits non-zero when any violation is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		guardCmd := &commands.GuardCommand{Ledger: ledgerRepo, Tombstones: tombLog}
		result, err := guardCmd.Execute(cmd.Context())
		if err != nil && !errors.Is(err, application.ErrGuardViolation) {
			return err
		}
		for _, violation := range result.Violations {
			fmt.Println(violation)
		}
		fmt.Println(result.Message)
		return err
	},
}

func init() {
	rootCmd.AddCommand(guardCmd)
}
