// Package commands holds the application-level operations behind the CLI:
// sync, capture, views, guard, and search. Each command validates its
// inputs, orchestrates ports and the reconciliation engine, and returns a
// result with a printable message.
package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"kinetic/internal/application"
	"kinetic/internal/config"
	"kinetic/internal/domain"
	"kinetic/internal/ledger"
	"kinetic/internal/outline"
	"kinetic/internal/ports"
	"kinetic/internal/reconcile"
)

// SyncCommand runs one full reconciliation pass: parse every managed
// document, reconcile against the ledger, prune, apply the card overlay,
// regenerate the documents, and persist the tables.
type SyncCommand struct {
	Ledger     ports.LedgerRepository
	Tombstones ports.TombstoneLog
	Buckets    ports.BucketCatalog
	Docs       ports.DocumentStore
	Index      ports.LedgerIndex // optional; rebuilt after a successful sync
	Config     *config.Config
	Logger     *log.Logger

	// DryRun reconciles and reports but writes nothing
	DryRun bool
}

// SyncResult contains the outcome of one sync pass
type SyncResult struct {
	Stats   domain.ReconcileStats
	Message string
}

// Validate checks that the command is runnable
func (c *SyncCommand) Validate() error {
	if c.Ledger == nil || c.Tombstones == nil || c.Docs == nil || c.Config == nil {
		return &application.ValidationError{Field: "sync", Message: "missing dependencies"}
	}
	return nil
}

// Execute runs the sync pass
func (c *SyncCommand) Execute(ctx context.Context) (*SyncResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	start := time.Now()

	store, tombs, err := c.loadState()
	if err != nil {
		return nil, err
	}

	pass := reconcile.NewPass(store, tombs, reconcile.MatchConfig{
		Similarity: c.Config.Match.Similarity,
		Ambiguity:  c.Config.Match.Ambiguity,
	}, logger)
	parser := outline.NewParser(c.Config.Parse.TabWidth)

	if err := c.reconcileDocuments(ctx, pass, parser); err != nil {
		return nil, err
	}

	cards, err := c.loadCards()
	if err != nil {
		return nil, err
	}
	pass.ApplyOverlay(cards)

	pass.RemoveUnseen()
	pass.Prune()

	catalog, err := c.loadBuckets()
	if err != nil {
		return nil, err
	}
	plan := pass.BuildPlan(c.Config.Paths.Core, c.Config.Paths.S3, catalog)

	var latest *reconcile.CardSnapshot
	if len(cards) > 0 {
		latest = &cards[len(cards)-1]
	}

	if !c.DryRun {
		if err := c.renderDocuments(pass, plan, latest); err != nil {
			return nil, err
		}
		if err := c.Ledger.Save(store.All()); err != nil {
			return nil, fmt.Errorf("save ledger: %w", err)
		}
		if err := c.Tombstones.Save(tombs.Records()); err != nil {
			return nil, fmt.Errorf("save tombstones: %w", err)
		}
		if c.Index != nil {
			if err := c.Index.Rebuild(store.All()); err != nil {
				// The index is derived state; a failed rebuild degrades
				// search but must not fail the sync.
				logger.Warn("index rebuild failed", "err", err)
			}
		}
	}

	pass.Stats.Duration = time.Since(start)
	logger.Info("sync complete",
		"documents", pass.Stats.DocumentsParsed,
		"items", pass.Stats.ItemsSeen,
		"created", pass.Stats.Created,
		"updated", pass.Stats.Updated,
		"tombstoned", pass.Stats.Tombstoned,
		"merged", pass.Stats.Merged,
		"ambiguous", pass.Stats.Ambiguous,
		"duration", pass.Stats.Duration)

	return &SyncResult{
		Stats: pass.Stats,
		Message: fmt.Sprintf("Synced %d documents: %d created, %d updated, %d tombstoned",
			pass.Stats.DocumentsParsed, pass.Stats.Created, pass.Stats.Updated, pass.Stats.Tombstoned),
	}, nil
}

func (c *SyncCommand) loadState() (*ledger.Store, *ledger.TombstoneSet, error) {
	objects, err := c.Ledger.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	store := ledger.NewStore()
	for _, obj := range objects {
		if err := store.Add(obj); err != nil {
			return nil, nil, fmt.Errorf("load ledger: %w", err)
		}
	}
	records, err := c.Tombstones.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load tombstones: %w", err)
	}
	return store, ledger.NewTombstoneSet(records), nil
}

func (c *SyncCommand) loadBuckets() ([]domain.Bucket, error) {
	var catalog []domain.Bucket
	if c.Buckets != nil {
		loaded, err := c.Buckets.Load()
		if err != nil {
			return nil, fmt.Errorf("load bucket catalog: %w", err)
		}
		catalog = loaded
	}
	return reconcile.LatestBuckets(catalog), nil
}

func (c *SyncCommand) reconcileDocuments(ctx context.Context, pass *reconcile.Pass, parser *outline.Parser) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.Docs.Exists(c.Config.Paths.Core) {
		lines, err := c.Docs.Read(c.Config.Paths.Core)
		if err != nil {
			return err
		}
		pass.ReconcileCore(parser.Parse(c.Config.Paths.Core, lines))
	}

	if c.Docs.Exists(c.Config.Paths.S3) {
		lines, err := c.Docs.Read(c.Config.Paths.S3)
		if err != nil {
			return err
		}
		pass.ReconcileS3(parser.Parse(c.Config.Paths.S3, lines))
	}

	projectFiles, err := c.Docs.ListProjectFiles()
	if err != nil {
		return err
	}
	for _, relPath := range projectFiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines, err := c.Docs.Read(relPath)
		if err != nil {
			return err
		}
		pass.ReconcileProjectFile(parser.Parse(relPath, lines))
	}

	if c.Docs.Exists(c.Config.Paths.Projects) {
		lines, err := c.Docs.Read(c.Config.Paths.Projects)
		if err != nil {
			return err
		}
		pass.ReconcileProjectsIndex(parser.Parse(c.Config.Paths.Projects, lines))
	}
	return nil
}

func (c *SyncCommand) loadCards() ([]reconcile.CardSnapshot, error) {
	files, err := c.Docs.ListCardFiles()
	if err != nil {
		return nil, err
	}
	var cards []reconcile.CardSnapshot
	for _, file := range files {
		lines, err := c.Docs.Read(file.Path)
		if err != nil {
			return nil, err
		}
		cards = append(cards, reconcile.CardSnapshot{
			Source: file.Path,
			Date:   file.Date,
			Rows:   outline.ParseCardTable(lines),
		})
	}
	return cards, nil
}

func (c *SyncCommand) renderDocuments(pass *reconcile.Pass, plan *reconcile.Plan, latest *reconcile.CardSnapshot) error {
	core := outline.RenderCoreDocument(plan.Areas, plan.Relationships, plan.ByID)
	if err := c.writeIfChanged(c.Config.Paths.Core, core); err != nil {
		return err
	}

	todayLines := reconcile.TodayLines(latest, pass.Store)
	s3 := outline.RenderS3Document(plan.Sections, plan.ComingUp, todayLines, plan.ByID)
	if err := c.writeIfChanged(c.Config.Paths.S3, s3); err != nil {
		return err
	}

	prefix := c.Config.Paths.ProjectsDir + "/"
	for _, project := range plan.Projects {
		if !strings.HasPrefix(project.SourceLocation, prefix) {
			continue
		}
		var existing []string
		if c.Docs.Exists(project.SourceLocation) {
			lines, err := c.Docs.Read(project.SourceLocation)
			if err != nil {
				return err
			}
			existing = lines
		}
		content := outline.RenderProjectDocument(existing, project,
			plan.ProjectTasks[project.ID], plan.Orphans[project.ID], plan.ByID)
		if err := c.writeIfChanged(project.SourceLocation, content); err != nil {
			return err
		}
	}

	var existingIndex []string
	if c.Docs.Exists(c.Config.Paths.Projects) {
		lines, err := c.Docs.Read(c.Config.Paths.Projects)
		if err != nil {
			return err
		}
		existingIndex = lines
	}
	index := outline.RenderProjectsIndex(existingIndex, plan.Projects, plan.OpenTasks)
	return c.writeIfChanged(c.Config.Paths.Projects, index)
}

// writeIfChanged skips the write when the rendered content already matches
// the file, keeping modification times stable across no-op syncs
func (c *SyncCommand) writeIfChanged(relPath, content string) error {
	if c.Docs.Exists(relPath) {
		lines, err := c.Docs.Read(relPath)
		if err == nil && strings.Join(lines, "\n")+"\n" == content {
			return nil
		}
	}
	return c.Docs.Write(relPath, content)
}
