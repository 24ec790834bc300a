package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kinetic/internal/application/commands"
)

var (
	cardForce bool
	cardLimit int
	cardDate  string
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Generate today's snapshot card",
	Long: `Write the daily card: the highest-priority scheduled tasks as a ranked
checkbox table. Check rows off during the day; the next sync marks the
checked tasks Complete.

Examples:
  kinetic card
  kinetic card --date 2026-08-23 --limit 5 --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var date time.Time
		if cardDate != "" {
			parsed, err := time.Parse("2006-01-02", cardDate)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", cardDate, err)
			}
			date = parsed
		}

		cardCmd := &commands.CardCommand{
			Ledger:   ledgerRepo,
			Docs:     docs,
			CardsDir: cfg.Paths.CardsDir,
			Date:     date,
			Limit:    cardLimit,
			Force:    cardForce,
		}
		result, err := cardCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	cardCmd.Flags().BoolVarP(&cardForce, "force", "f", false, "overwrite an existing card")
	cardCmd.Flags().IntVarP(&cardLimit, "limit", "n", commands.DefaultCardSize, "maximum tasks on the card")
	cardCmd.Flags().StringVar(&cardDate, "date", "", "card date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(cardCmd)
}
