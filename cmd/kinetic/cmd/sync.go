package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kinetic/internal/adapters/sqlite"
	"kinetic/internal/application/commands"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the documents against the ledger",
	Long: `Parse every managed document, reconcile it against the ledger, prune
duplicates and dangling links, apply the daily-card overlay, and
regenerate the documents from the updated ledger.

Examples:
  kinetic sync
  kinetic sync --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		index := sqlite.NewIndex()
		if err := index.Open(cfg.IndexPath()); err != nil {
			logger.Warn("search index unavailable", "err", err)
			index = nil
		} else {
			defer index.Close()
		}

		syncCmd := &commands.SyncCommand{
			Ledger:     ledgerRepo,
			Tombstones: tombLog,
			Buckets:    bucketCat,
			Docs:       docs,
			Config:     cfg,
			Logger:     logger,
			DryRun:     syncDryRun,
		}
		if index != nil {
			syncCmd.Index = index
		}

		result, err := syncCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "reconcile and report without writing")
	rootCmd.AddCommand(syncCmd)
}
