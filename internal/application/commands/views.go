package commands

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kinetic/internal/application"
	"kinetic/internal/domain"
	"kinetic/internal/outline"
	"kinetic/internal/ports"
	"kinetic/internal/reconcile"
)

// ViewsCommand compiles read-only artifacts from the ledger into the views
// directory: summary JSON, filtered CSV extracts, the bucket definitions,
// and a copy of the latest daily card. Artifacts are derived state and are
// regenerated wholesale on every run.
type ViewsCommand struct {
	Ledger     ports.LedgerRepository
	Tombstones ports.TombstoneLog
	Buckets    ports.BucketCatalog
	Docs       ports.DocumentStore
	ViewsDir   string
}

// ViewsResult contains the outcome of a views compilation
type ViewsResult struct {
	Written []string
	Message string
}

// ledgerSummary is the shape of Ledger_Summary.json
type ledgerSummary struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Objects     int            `json:"objects"`
	Tombstones  int            `json:"tombstones"`
	ByType      map[string]int `json:"by_type"`
	ByState     map[string]int `json:"by_state"`
	OpenTasks   int            `json:"open_tasks"`
}

// bucketDefinition is one entry of S3_Definitions.json
type bucketDefinition struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}

// Validate checks the command inputs
func (c *ViewsCommand) Validate() error {
	if c.Ledger == nil || c.Docs == nil || c.ViewsDir == "" {
		return &application.ValidationError{Field: "views", Message: "missing dependencies"}
	}
	return nil
}

// Execute compiles all artifacts
func (c *ViewsCommand) Execute(ctx context.Context) (*ViewsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	objects, err := c.Ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	var tombstones []domain.TombstoneRecord
	if c.Tombstones != nil {
		tombstones, err = c.Tombstones.Load()
		if err != nil {
			return nil, fmt.Errorf("load tombstones: %w", err)
		}
	}
	var catalog []domain.Bucket
	if c.Buckets != nil {
		catalog, err = c.Buckets.Load()
		if err != nil {
			return nil, fmt.Errorf("load bucket catalog: %w", err)
		}
	}
	catalog = reconcile.LatestBuckets(catalog)

	outline.SortObjects(objects)

	result := &ViewsResult{}
	write := func(name, content string) error {
		relPath := c.ViewsDir + "/" + name
		if err := c.Docs.Write(relPath, content); err != nil {
			return err
		}
		result.Written = append(result.Written, relPath)
		return nil
	}

	if err := write("Ledger_Summary.json", c.summaryJSON(objects, tombstones)); err != nil {
		return nil, err
	}
	if err := write("Tasks_Active.csv", activeTasksCSV(objects)); err != nil {
		return nil, err
	}
	if err := write("Tasks_By_S3.csv", tasksByBucketCSV(objects, catalog)); err != nil {
		return nil, err
	}
	if err := write("Projects_Open.csv", openProjectsCSV(objects)); err != nil {
		return nil, err
	}
	if err := write("Goals_And_AoRs.csv", goalsCSV(objects)); err != nil {
		return nil, err
	}
	if err := write("S3_Definitions.json", bucketJSON(catalog)); err != nil {
		return nil, err
	}
	if err := c.copyLatestCard(write); err != nil {
		return nil, err
	}

	result.Message = fmt.Sprintf("Compiled %d view artifacts", len(result.Written))
	return result, nil
}

func (c *ViewsCommand) summaryJSON(objects []*domain.LedgerObject, tombstones []domain.TombstoneRecord) string {
	summary := ledgerSummary{
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Objects:     len(objects),
		Tombstones:  len(tombstones),
		ByType:      make(map[string]int),
		ByState:     make(map[string]int),
	}
	for _, obj := range objects {
		summary.ByType[obj.Type.String()]++
		state := obj.State
		if state == "" {
			state = domain.StateActive
		}
		summary.ByState[state]++
		if obj.Type == domain.TypeTask && !obj.IsComplete() {
			summary.OpenTasks++
		}
	}
	return marshalJSON(summary)
}

func activeTasksCSV(objects []*domain.LedgerObject) string {
	rows := [][]string{{"Object ID", "Name", "Bucket", "Source", "Parent", "People"}}
	for _, obj := range objects {
		if obj.Type != domain.TypeTask || obj.IsComplete() {
			continue
		}
		rows = append(rows, []string{
			obj.ID, obj.DisplayName, obj.BucketTag(), obj.SourceLocation,
			obj.ParentID, strings.Join(obj.People, ";"),
		})
	}
	return marshalCSV(rows)
}

func tasksByBucketCSV(objects []*domain.LedgerObject, catalog []domain.Bucket) string {
	rows := [][]string{{"Bucket", "Bucket Name", "Object ID", "Name", "Source"}}
	names := make(map[string]string, len(catalog))
	order := make([]string, 0, len(catalog))
	for _, b := range catalog {
		names[b.ID] = b.DisplayName
		order = append(order, b.ID)
	}
	for _, bucketID := range order {
		for _, obj := range objects {
			if obj.Type != domain.TypeTask || obj.IsComplete() || !obj.HasTag(bucketID) {
				continue
			}
			rows = append(rows, []string{bucketID, names[bucketID], obj.ID, obj.DisplayName, obj.SourceLocation})
		}
	}
	return marshalCSV(rows)
}

func openProjectsCSV(objects []*domain.LedgerObject) string {
	open := make(map[string]int)
	for _, obj := range objects {
		if obj.Type == domain.TypeTask && !obj.IsComplete() && obj.ParentID != "" {
			open[rootProjectID(obj.ParentID)]++
		}
	}
	rows := [][]string{{"Object ID", "Name", "State", "Open Tasks", "File"}}
	for _, obj := range objects {
		if obj.Type != domain.TypeProject || obj.IsComplete() {
			continue
		}
		state := obj.State
		if state == "" {
			state = domain.StateActive
		}
		rows = append(rows, []string{
			obj.ID, obj.DisplayName, state,
			fmt.Sprintf("%d", open[obj.ID]), obj.SourceLocation,
		})
	}
	return marshalCSV(rows)
}

func goalsCSV(objects []*domain.LedgerObject) string {
	rows := [][]string{{"Object ID", "Type", "Name", "Parent", "State"}}
	for _, obj := range objects {
		if obj.Type != domain.TypeAOR && obj.Type != domain.TypeGoal {
			continue
		}
		state := obj.State
		if state == "" {
			state = domain.StateActive
		}
		rows = append(rows, []string{obj.ID, obj.Type.String(), obj.DisplayName, obj.ParentID, state})
	}
	return marshalCSV(rows)
}

func bucketJSON(catalog []domain.Bucket) string {
	defs := make([]bucketDefinition, 0, len(catalog))
	for _, b := range catalog {
		defs = append(defs, bucketDefinition{ID: b.ID, DisplayName: b.DisplayName, Description: b.Description})
	}
	return marshalJSON(defs)
}

// copyLatestCard duplicates the most recent daily card into the views
// directory so downstream consumers read one stable path
func (c *ViewsCommand) copyLatestCard(write func(name, content string) error) error {
	cards, err := c.Docs.ListCardFiles()
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return nil
	}
	latest := cards[len(cards)-1]
	lines, err := c.Docs.Read(latest.Path)
	if err != nil {
		return err
	}
	return write("TodayCard.md", strings.Join(lines, "\n")+"\n")
}

// rootProjectID maps a hierarchical child id to its top-level id when the
// prefix denotes a project
func rootProjectID(id string) string {
	top := id
	if i := strings.IndexByte(id, '.'); i >= 0 {
		top = id[:i]
	}
	if domain.IDType(top) == domain.TypeProject {
		return top
	}
	return id
}

func marshalJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data) + "\n"
}

func marshalCSV(rows [][]string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.WriteAll(rows)
	w.Flush()
	return buf.String()
}
