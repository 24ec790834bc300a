package reconcile

import (
	"slices"
	"time"

	"kinetic/internal/domain"
	"kinetic/internal/outline"
)

// CardSnapshot is one parsed daily card: its repo path, the date from the
// filename, and the ranked table rows.
type CardSnapshot struct {
	Source string
	Date   time.Time
	Rows   []outline.CardRow
}

// ApplyOverlay applies the daily-card snapshots to the ledger. Checked rows
// in any card complete their objects permanently; the most recent card also
// defines which objects carry the transient Today tag.
func (p *Pass) ApplyOverlay(cards []CardSnapshot) {
	if len(cards) == 0 {
		return
	}

	for _, card := range cards {
		for _, id := range outline.CheckedCardIDs(card.Rows) {
			obj, ok := p.Store.Get(id)
			if !ok {
				if !p.Tombstones.Contains(id) {
					p.logger.Warn("card references unknown id", "id", id, "card", card.Source)
				}
				continue
			}
			if obj.IsComplete() {
				continue
			}
			obj.State = domain.StateComplete
			obj.StripBucketTags()
			obj.RemoveTag(domain.TagToday)
			obj.ModifiedAt = p.now
			p.Store.Touch()
			p.Stats.CompletedByCard++
		}
	}

	latest := slices.MaxFunc(cards, func(a, b CardSnapshot) int {
		return a.Date.Compare(b.Date)
	})
	today := make(map[string]bool)
	for _, id := range outline.CardIDs(latest.Rows) {
		today[id] = true
	}
	for _, obj := range p.Store.All() {
		switch {
		case today[obj.ID] && !obj.IsComplete():
			if obj.AddTag(domain.TagToday) {
				p.Store.Touch()
			}
		case obj.HasTag(domain.TagToday) && !today[obj.ID]:
			obj.RemoveTag(domain.TagToday)
			p.Store.Touch()
		case obj.IsComplete() && obj.HasTag(domain.TagToday):
			obj.RemoveTag(domain.TagToday)
			p.Store.Touch()
		}
	}
}
