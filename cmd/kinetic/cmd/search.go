package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kinetic/internal/adapters/sqlite"
	"kinetic/internal/application/commands"
)

var searchRefresh bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the ledger",
	Long: `Search the derived index over names, tags, people, and notes.

Examples:
  kinetic search passport
  kinetic search @maria --refresh`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index := sqlite.NewIndex()
		if err := index.Open(cfg.IndexPath()); err != nil {
			return err
		}
		defer index.Close()

		searchCmd := &commands.SearchCommand{
			Ledger:  ledgerRepo,
			Index:   index,
			Query:   strings.Join(args, " "),
			Refresh: searchRefresh,
		}
		result, err := searchCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(result.Hits) == 0 {
			fmt.Println(result.Message)
			return nil
		}
		for _, hit := range result.Hits {
			line := fmt.Sprintf("%-6s %-12s %s", hit.ID, hit.Type, hit.DisplayName)
			if hit.Snippet != "" {
				line += "  · " + hit.Snippet
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchRefresh, "refresh", false, "rebuild the index from the ledger first")
	rootCmd.AddCommand(searchCmd)
}
