package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"kinetic/internal/application"
	"kinetic/internal/domain"
	"kinetic/internal/outline"
	"kinetic/internal/ports"
)

// DefaultCardSize caps how many tasks a generated card proposes
const DefaultCardSize = 10

// CardCommand generates the daily snapshot card: the highest-priority
// scheduled tasks, ranked by bucket then id, written as a card table. The
// human checks rows off during the day; the next sync folds the checks back
// into the ledger.
type CardCommand struct {
	Ledger   ports.LedgerRepository
	Docs     ports.DocumentStore
	CardsDir string
	Date     time.Time
	Limit    int

	// Force overwrites an existing card for the date
	Force bool
}

// CardResult contains the outcome of a card generation
type CardResult struct {
	Path    string
	Tasks   int
	Message string
}

// Validate checks the command inputs
func (c *CardCommand) Validate() error {
	if c.Ledger == nil || c.Docs == nil || c.CardsDir == "" {
		return &application.ValidationError{Field: "card", Message: "missing dependencies"}
	}
	return nil
}

// Execute writes the card for the given date
func (c *CardCommand) Execute(ctx context.Context) (*CardResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	date := c.Date
	if date.IsZero() {
		date = time.Now()
	}
	relPath := fmt.Sprintf("%s/%s-TodayCard.md", c.CardsDir, date.Format("2006-01-02"))
	if c.Docs.Exists(relPath) && !c.Force {
		return nil, fmt.Errorf("card %s already exists", relPath)
	}

	objects, err := c.Ledger.Load()
	if err != nil {
		return nil, err
	}

	tasks := scheduledTasks(objects)
	limit := c.Limit
	if limit <= 0 {
		limit = DefaultCardSize
	}
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}

	lines := []string{"# Today Card " + date.Format("2006-01-02"), ""}
	lines = append(lines, outline.RenderCardTable(tasks)...)
	if err := c.Docs.Write(relPath, strings.Join(lines, "\n")+"\n"); err != nil {
		return nil, err
	}
	return &CardResult{
		Path:    relPath,
		Tasks:   len(tasks),
		Message: fmt.Sprintf("Wrote %s with %d tasks", relPath, len(tasks)),
	}, nil
}

// scheduledTasks returns the open tasks that carry a real bucket tag,
// highest-priority bucket first. The catch-all bucket is not focus material.
func scheduledTasks(objects []*domain.LedgerObject) []*domain.LedgerObject {
	var tasks []*domain.LedgerObject
	for _, obj := range objects {
		if obj.Type != domain.TypeTask || obj.IsComplete() {
			continue
		}
		tag := obj.BucketTag()
		if tag == "" || tag == domain.UnscheduledBucket.ID {
			continue
		}
		tasks = append(tasks, obj)
	}
	slices.SortStableFunc(tasks, func(a, b *domain.LedgerObject) int {
		if d := domain.BucketPriority(a.BucketTag()) - domain.BucketPriority(b.BucketTag()); d != 0 {
			return d
		}
		return domain.CompareIDs(a.ID, b.ID)
	})
	return tasks
}
