package commands

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"kinetic/internal/adapters/ledgercsv"
	"kinetic/internal/application"
	"kinetic/internal/domain"
)

func guardFixture(t *testing.T, objects []*domain.LedgerObject, tombs []domain.TombstoneRecord) *GuardCommand {
	t.Helper()
	dir := t.TempDir()
	repo := ledgercsv.NewLedgerFile(filepath.Join(dir, "Ledger.csv"))
	log := ledgercsv.NewTombstoneFile(filepath.Join(dir, "Tombstone_Ledger.csv"))
	if err := repo.Save(objects); err != nil {
		t.Fatal(err)
	}
	if err := log.Save(tombs); err != nil {
		t.Fatal(err)
	}
	return &GuardCommand{Ledger: repo, Tombstones: log}
}

func TestGuardCleanLedger(t *testing.T) {
	parent := &domain.LedgerObject{ID: "P1", Type: domain.TypeProject, State: domain.StateActive, SourceLocation: "Projects/garden.md", ChildIDs: []string{"P1.1"}}
	parent.Rename("Garden")
	child := &domain.LedgerObject{ID: "P1.1", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "Projects/garden.md", ParentID: "P1"}
	child.Rename("Water the plants")

	cmd := guardFixture(t, []*domain.LedgerObject{parent, child},
		[]domain.TombstoneRecord{{ID: "T9", CanonicalName: "gone"}})

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Violations) != 0 {
		t.Errorf("violations = %v", result.Violations)
	}
}

func TestGuardDetectsViolations(t *testing.T) {
	resurrected := &domain.LedgerObject{ID: "T9", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "S3.md"}
	resurrected.Rename("Back from the dead")
	halfLinked := &domain.LedgerObject{ID: "T2", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "S3.md", ParentID: "T9"}
	halfLinked.Rename("Half linked")
	tagged := &domain.LedgerObject{ID: "T3", Type: domain.TypeTask, State: domain.StateComplete, SourceLocation: "S3.md", Tags: []string{"S3-2"}}
	tagged.Rename("Done but tagged")

	cmd := guardFixture(t, []*domain.LedgerObject{resurrected, halfLinked, tagged},
		[]domain.TombstoneRecord{{ID: "T9", CanonicalName: "backfromthedead"}})

	result, err := cmd.Execute(context.Background())
	if !errors.Is(err, application.ErrGuardViolation) {
		t.Fatalf("err = %v, want ErrGuardViolation", err)
	}
	// Resurrection, missing child back-link, and bucket tag on a completed
	// object must all be reported.
	if len(result.Violations) != 3 {
		t.Errorf("violations = %v", result.Violations)
	}
}
