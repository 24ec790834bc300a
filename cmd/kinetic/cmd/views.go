package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kinetic/internal/application/commands"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Compile read-only view artifacts from the ledger",
	Long: `Regenerate the derived artifacts in the views directory: the ledger
summary, the task and project extracts, the bucket definitions, and a
copy of the latest daily card.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		viewsCmd := &commands.ViewsCommand{
			Ledger:     ledgerRepo,
			Tombstones: tombLog,
			Buckets:    bucketCat,
			Docs:       docs,
			ViewsDir:   cfg.Paths.ViewsDir,
		}
		result, err := viewsCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		for _, path := range result.Written {
			fmt.Println(path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}
