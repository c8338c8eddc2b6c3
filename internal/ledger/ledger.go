// Package ledger holds the habit ledger: recorded days, planned targets, and
// the engine that resolves targets and computes streaks over them. It does no
// I/O; callers load and save ledgers through the store package.
package ledger

import "sort"

// DayEntry is one calendar day's recorded progress. Target is captured when
// the entry is created and stays fixed even if plans change later.
type DayEntry struct {
	Date   string `json:"date"`
	Count  int    `json:"count"`
	Target int    `json:"target"`
}

// PlannedTarget is a target intended for a day that has no entry yet.
type PlannedTarget struct {
	Date   string `json:"date"`
	Target int    `json:"target"`
}

// Ledger is the in-memory aggregate of day entries and planned targets, each
// keyed by date. A single session owns a Ledger; it is not safe for
// concurrent mutation.
type Ledger struct {
	entries map[string]DayEntry
	planned map[string]PlannedTarget
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		entries: make(map[string]DayEntry),
		planned: make(map[string]PlannedTarget),
	}
}

// Read accessors treat a nil *Ledger as empty.

func (l *Ledger) Entry(date string) (DayEntry, bool) {
	if l == nil {
		return DayEntry{}, false
	}
	e, ok := l.entries[date]
	return e, ok
}

func (l *Ledger) Plan(date string) (PlannedTarget, bool) {
	if l == nil {
		return PlannedTarget{}, false
	}
	p, ok := l.planned[date]
	return p, ok
}

// Entries returns all day entries sorted by date, oldest first.
func (l *Ledger) Entries() []DayEntry {
	if l == nil {
		return []DayEntry{}
	}
	out := make([]DayEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PlannedTargets returns all planned targets sorted by date, oldest first.
func (l *Ledger) PlannedTargets() []PlannedTarget {
	if l == nil {
		return []PlannedTarget{}
	}
	out := make([]PlannedTarget, 0, len(l.planned))
	for _, p := range l.planned {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (l *Ledger) EntryCount() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *Ledger) PlanCount() int {
	if l == nil {
		return 0
	}
	return len(l.planned)
}

// Clone returns a deep copy. Cloning nil yields an empty ledger.
func (l *Ledger) Clone() *Ledger {
	c := New()
	if l == nil {
		return c
	}
	for k, v := range l.entries {
		c.entries[k] = v
	}
	for k, v := range l.planned {
		c.planned[k] = v
	}
	return c
}

func (l *Ledger) putEntry(e DayEntry) {
	l.init()
	l.entries[e.Date] = e
}

func (l *Ledger) putPlan(p PlannedTarget) {
	l.init()
	l.planned[p.Date] = p
}

// init makes the zero Ledger usable.
func (l *Ledger) init() {
	if l.entries == nil {
		l.entries = make(map[string]DayEntry)
	}
	if l.planned == nil {
		l.planned = make(map[string]PlannedTarget)
	}
}
