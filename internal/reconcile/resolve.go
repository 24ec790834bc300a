// Package reconcile implements the reconciliation engine: identity
// resolution of parsed outline items against the ledger, attribute and
// hierarchy updates, tag inheritance, pruning, deduplication, orphan
// routing, and the daily-snapshot overlay.
package reconcile

import (
	"fmt"
	"slices"

	"kinetic/internal/domain"
	"kinetic/internal/ledger"
)

// MatchConfig carries the fuzzy-match tuning knobs. The defaults are
// empirical; both are configurable via the [match] config section.
type MatchConfig struct {
	// Similarity is the minimum score a non-substring candidate must reach
	Similarity float64
	// Ambiguity is the margin the winner must hold over the runner-up
	Ambiguity float64
}

// DefaultMatchConfig returns the default thresholds
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{Similarity: 0.70, Ambiguity: 0.05}
}

// Outcome classifies a resolution attempt
type Outcome int

const (
	// OutcomeMatched means an existing object was found
	OutcomeMatched Outcome = iota
	// OutcomeCreate means no object qualified and a new one should be
	// allocated (includes the ambiguity-rejection case)
	OutcomeCreate
	// OutcomeSkip means the item must not be processed at all
	// (references a tombstoned id)
	OutcomeSkip
)

// Resolution is the result of resolving one parsed item
type Resolution struct {
	Outcome   Outcome
	Object    *domain.LedgerObject
	Ambiguous bool
	Reason    string
}

// candidate is one fuzzy-match contender
type candidate struct {
	obj       *domain.LedgerObject
	score     float64
	contained bool
}

// Resolver resolves parsed items to ledger objects in strict priority
// order: explicit id, structural key, fuzzy name match, then create
type Resolver struct {
	store      *ledger.Store
	tombstones *ledger.TombstoneSet
	cfg        MatchConfig
}

// NewResolver builds a resolver over the store and tombstone set
func NewResolver(store *ledger.Store, tombstones *ledger.TombstoneSet, cfg MatchConfig) *Resolver {
	return &Resolver{store: store, tombstones: tombstones, cfg: cfg}
}

// Resolve attempts to identify the ledger object for an item of the given
// type found in the given source document
func (r *Resolver) Resolve(explicitID string, t domain.ObjectType, source, displayName string) Resolution {
	canonical := domain.CanonicalText(displayName)

	// 1. Explicit id. A tombstoned id is never silently resurrected.
	if explicitID != "" {
		if obj, ok := r.store.Get(explicitID); ok {
			return Resolution{Outcome: OutcomeMatched, Object: obj}
		}
		if r.tombstones.Contains(explicitID) {
			return Resolution{
				Outcome: OutcomeSkip,
				Reason:  fmt.Sprintf("id %s is tombstoned", explicitID),
			}
		}
		// Unknown id annotation: fall through to the remaining strategies.
	}

	// 2. Structural key, exact and unique.
	key := domain.StructuralKey{Type: t, SourceLocation: source, CanonicalText: canonical}
	if matches := r.store.FindStructural(key); len(matches) == 1 {
		return Resolution{Outcome: OutcomeMatched, Object: matches[0]}
	}

	// 3. Fuzzy name match with ambiguity rejection.
	return r.resolveFuzzy(t, canonical)
}

func (r *Resolver) resolveFuzzy(t domain.ObjectType, canonical string) Resolution {
	if canonical == "" {
		return Resolution{Outcome: OutcomeCreate, Reason: "empty canonical text"}
	}

	var cands []candidate
	for _, obj := range r.store.OfType(t) {
		score := domain.Similarity(canonical, obj.CanonicalText)
		contained := domain.ContainsCanonical(canonical, obj.CanonicalText)
		if score <= 0 && !contained {
			continue
		}
		cands = append(cands, candidate{obj: obj, score: score, contained: contained})
	}
	if len(cands) == 0 {
		return Resolution{Outcome: OutcomeCreate, Reason: "no candidates"}
	}

	// Containment outranks general similarity; within a class, score rules.
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if a.contained != b.contained {
			if a.contained {
				return -1
			}
			return 1
		}
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	top := cands[0]
	if !top.contained && top.score < r.cfg.Similarity {
		return Resolution{
			Outcome: OutcomeCreate,
			Reason:  fmt.Sprintf("best score %.2f below threshold %.2f", top.score, r.cfg.Similarity),
		}
	}

	// The winner must clear the runner-up of its own class by more than
	// the ambiguity tolerance; a lone containment match has no rival.
	for _, rival := range cands[1:] {
		if rival.contained != top.contained {
			break
		}
		if top.score-rival.score <= r.cfg.Ambiguity {
			return Resolution{
				Outcome:   OutcomeCreate,
				Ambiguous: true,
				Reason: fmt.Sprintf("ambiguous: %s scored %.2f vs %s at %.2f (tolerance %.2f)",
					top.obj.ID, top.score, rival.obj.ID, rival.score, r.cfg.Ambiguity),
			}
		}
		break
	}

	return Resolution{Outcome: OutcomeMatched, Object: top.obj}
}
