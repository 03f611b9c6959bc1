package diag

import (
	"sort"
)

// Bag collects diagnostics and owns the deconfliction rules shared by
// the lexer, parser, and checker. Deconfliction happens on Add so that
// a structural error claims its span before lower-priority noise lands
// on it; Finalize orders the surviving set deterministically.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Add inserts a diagnostic, deconflicting against any diagnostic that
// already occupies the same primary span:
//   - higher incoming priority replaces the existing one;
//   - equal priority with an identical message merges labels and notes;
//   - otherwise the incoming diagnostic is dropped.
func (b *Bag) Add(d Diagnostic) {
	existingIdx := -1
	for i := range b.items {
		if b.items[i].Primary == d.Primary {
			existingIdx = i
			break
		}
	}
	if existingIdx < 0 {
		d.Labels = dedupLabels(d.Labels)
		b.items = append(b.items, d)
		return
	}

	existing := &b.items[existingIdx]
	switch {
	case d.Priority() > existing.Priority():
		d.Labels = dedupLabels(d.Labels)
		b.items[existingIdx] = d
	case d.Priority() == existing.Priority() && d.Message == existing.Message:
		existing.Labels = dedupLabels(append(existing.Labels, d.Labels...))
		existing.Notes = dedupNotes(append(existing.Notes, d.Notes...))
		existing.Fixes = append(existing.Fixes, d.Fixes...)
	}
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge folds diagnostics from another bag through the same
// deconfliction rules.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
}

// Finalize sorts by (start, end, priority desc, message) and returns
// the ordered set. The order is byte-for-byte reproducible for the same
// input; rendering must follow it.
func (b *Bag) Finalize() []Diagnostic {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Priority() != dj.Priority() {
			return di.Priority() > dj.Priority()
		}
		return di.Message < dj.Message
	})
	return b.items
}

func dedupLabels(labels []Label) []Label {
	if len(labels) < 2 {
		return labels
	}
	seen := make(map[Label]struct{}, len(labels))
	out := labels[:0]
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func dedupNotes(notes []string) []string {
	if len(notes) < 2 {
		return notes
	}
	seen := make(map[string]struct{}, len(notes))
	out := notes[:0]
	for _, n := range notes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
