package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"kinetic/internal/adapters/filesystem"
	"kinetic/internal/adapters/ledgercsv"
	"kinetic/internal/domain"
)

func TestViewsCompileArtifacts(t *testing.T) {
	root := t.TempDir()
	repo := ledgercsv.NewLedgerFile(filepath.Join(root, "Ledger.csv"))
	docs := filesystem.NewStore(root, "Projects", "Cards")

	active := &domain.LedgerObject{ID: "T1", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "S3.md", Tags: []string{"S3-2"}}
	active.Rename("Draft quarterly plan")
	finished := &domain.LedgerObject{ID: "T2", Type: domain.TypeTask, State: domain.StateComplete, SourceLocation: "S3.md"}
	finished.Rename("Renew passport")
	aor := &domain.LedgerObject{ID: "A1", Type: domain.TypeAOR, State: domain.StateActive, SourceLocation: "Core.md"}
	aor.Rename("Health")
	if err := repo.Save([]*domain.LedgerObject{active, finished, aor}); err != nil {
		t.Fatal(err)
	}
	docs.Write("Cards/2026-08-22-TodayCard.md", "# Today\n")

	cmd := &ViewsCommand{Ledger: repo, Docs: docs, ViewsDir: "Views"}
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Written) != 7 {
		t.Errorf("written = %v", result.Written)
	}

	summaryLines, err := docs.Read("Views/Ledger_Summary.json")
	if err != nil {
		t.Fatal(err)
	}
	var summary struct {
		Objects   int            `json:"objects"`
		ByType    map[string]int `json:"by_type"`
		OpenTasks int            `json:"open_tasks"`
	}
	if err := json.Unmarshal([]byte(strings.Join(summaryLines, "\n")), &summary); err != nil {
		t.Fatalf("summary JSON: %v", err)
	}
	if summary.Objects != 3 || summary.ByType["Task"] != 2 || summary.OpenTasks != 1 {
		t.Errorf("summary = %+v", summary)
	}

	tasks, _ := docs.Read("Views/Tasks_Active.csv")
	joined := strings.Join(tasks, "\n")
	if !strings.Contains(joined, "T1,Draft quarterly plan,S3-2") {
		t.Errorf("active tasks:\n%s", joined)
	}
	if strings.Contains(joined, "T2") {
		t.Error("completed task listed as active")
	}

	if !docs.Exists("Views/TodayCard.md") {
		t.Error("latest card not copied")
	}

	defs, _ := docs.Read("Views/S3_Definitions.json")
	if !strings.Contains(strings.Join(defs, "\n"), "S3-0") {
		t.Error("catch-all bucket missing from definitions")
	}
}
