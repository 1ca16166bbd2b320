package planner

import "github.com/remendec/Dozo-diet-planner-2.0/internal/shared"

const (
	// RepeatWindow is how many previous days a slot's selection must differ from.
	RepeatWindow = 7
	// MaxOccurrences caps how often one signature may be accepted in a run.
	MaxOccurrences = 3
)

// Tracker holds the anti-repetition state of one generation run. It is not
// safe for concurrent use; each run owns its own Tracker.
type Tracker struct {
	history []DayPlan
	counts  map[string]int
}

func NewTracker() *Tracker {
	return &Tracker{counts: make(map[string]int)}
}

// Acceptable reports whether sel may be placed in slot on the next day: it
// must differ from slot's selection on each of the last RepeatWindow days and
// its signature must have been accepted fewer than MaxOccurrences times.
func (t *Tracker) Acceptable(slot shared.MealSlot, sel Selection) bool {
	sig := sel.Signature()
	for back := 1; back <= min(RepeatWindow, len(t.history)); back++ {
		prev, ok := t.history[len(t.history)-back][slot]
		if ok && prev.Signature() == sig {
			return false
		}
	}
	return t.counts[sig] < MaxOccurrences
}

// Record counts an accepted selection.
func (t *Tracker) Record(sel Selection) {
	t.counts[sel.Signature()]++
}

// Count returns how many times sel's signature was recorded.
func (t *Tracker) Count(sel Selection) int {
	return t.counts[sel.Signature()]
}

// Commit appends a finished day to the history.
func (t *Tracker) Commit(day DayPlan) {
	t.history = append(t.history, day)
}
