package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"kinetic/internal/adapters/filesystem"
	"kinetic/internal/adapters/ledgercsv"
	"kinetic/internal/config"
	"kinetic/internal/ports"
)

var (
	rootPath string
	verbose  bool

	cfg        *config.Config
	ledgerRepo ports.LedgerRepository
	tombLog    ports.TombstoneLog
	bucketCat  ports.BucketCatalog
	docs       ports.DocumentStore
	logger     *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kinetic",
	Short: "Reconcile markdown planning documents against a canonical ledger",
	Long: `kinetic keeps a plain-text planning system consistent: a CSV ledger is
the canonical record, and the markdown documents (Core.md, S3.md, the
project files, and the daily cards) are the editing surface.

Run sync after editing any document to fold the edits into the ledger
and regenerate the managed documents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		loaded, err := config.Load(rootPath)
		if err != nil {
			return err
		}
		cfg = loaded

		ledgerRepo = ledgercsv.NewLedgerFile(cfg.LedgerPath())
		tombLog = ledgercsv.NewTombstoneFile(cfg.TombstonesPath())
		bucketCat = ledgercsv.NewBucketFile(cfg.BucketsPath())
		docs = filesystem.NewStore(cfg.Root, cfg.Paths.ProjectsDir, cfg.Paths.CardsDir)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", config.Root(), "path to the planning repo")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
