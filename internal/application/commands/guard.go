package commands

import (
	"context"
	"fmt"
	"slices"

	"kinetic/internal/application"
	"kinetic/internal/domain"
	"kinetic/internal/ports"
)

// GuardCommand checks the integrity invariants that sync relies on: no
// tombstoned id is live, ids are well-formed and unique, and hierarchy
// links resolve both ways. It never mutates anything.
type GuardCommand struct {
	Ledger     ports.LedgerRepository
	Tombstones ports.TombstoneLog
}

// GuardResult contains the outcome of an integrity check
type GuardResult struct {
	Violations []string
	Message    string
}

// Validate checks the command inputs
func (c *GuardCommand) Validate() error {
	if c.Ledger == nil || c.Tombstones == nil {
		return &application.ValidationError{Field: "guard", Message: "missing dependencies"}
	}
	return nil
}

// Execute runs all checks and returns ErrGuardViolation when any fail
func (c *GuardCommand) Execute(ctx context.Context) (*GuardResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	objects, err := c.Ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	records, err := c.Tombstones.Load()
	if err != nil {
		return nil, fmt.Errorf("load tombstones: %w", err)
	}

	var violations []string
	report := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	tombstoned := make(map[string]bool, len(records))
	for _, r := range records {
		tombstoned[r.ID] = true
	}

	live := make(map[string]*domain.LedgerObject, len(objects))
	for _, obj := range objects {
		if err := domain.ValidateID(obj.ID); err != nil {
			report("%s: malformed id", obj.ID)
			continue
		}
		if live[obj.ID] != nil {
			report("%s: duplicate ledger row", obj.ID)
			continue
		}
		live[obj.ID] = obj
		if tombstoned[obj.ID] {
			report("%s: tombstoned id is live (resurrection)", obj.ID)
		}
	}

	structural := make(map[domain.StructuralKey]string)
	for _, obj := range objects {
		key := obj.Key()
		if other, dup := structural[key]; dup {
			report("%s: duplicate structural key with %s", obj.ID, other)
		} else {
			structural[key] = obj.ID
		}

		if obj.ParentID != "" {
			parent, ok := live[obj.ParentID]
			if !ok {
				report("%s: parent %s does not exist", obj.ID, obj.ParentID)
			} else if !slices.Contains(parent.ChildIDs, obj.ID) {
				report("%s: missing from parent %s child list", obj.ID, obj.ParentID)
			}
		}
		for _, childID := range obj.ChildIDs {
			child, ok := live[childID]
			if !ok {
				report("%s: child %s does not exist", obj.ID, childID)
			} else if child.ParentID != obj.ID {
				report("%s: child %s points to parent %q", obj.ID, childID, child.ParentID)
			}
		}
		if obj.IsComplete() && obj.BucketTag() != "" {
			report("%s: completed object carries bucket tag %s", obj.ID, obj.BucketTag())
		}
	}

	result := &GuardResult{Violations: violations}
	if len(violations) > 0 {
		result.Message = fmt.Sprintf("Found %d integrity violations", len(violations))
		return result, &application.GuardError{Violations: violations}
	}
	result.Message = fmt.Sprintf("Ledger is consistent: %d objects, %d tombstones", len(objects), len(records))
	return result, nil
}
