package ledger

import (
	"encoding/json"
	"fmt"
)

type document struct {
	Entries        []DayEntry      `json:"entries"`
	PlannedTargets []PlannedTarget `json:"plannedTargets"`
}

// rawDocument accepts loosely typed input so one bad record cannot poison the
// whole blob. "logs" is the key older saves used for entries.
type rawDocument struct {
	Entries        []json.RawMessage `json:"entries"`
	Logs           []json.RawMessage `json:"logs"`
	PlannedTargets []json.RawMessage `json:"plannedTargets"`
}

// DecodeStats reports what Decode discarded.
type DecodeStats struct {
	Corrupt bool
	Dropped int
}

// Encode serializes the ledger as
// {"entries":[...],"plannedTargets":[...]} with both lists sorted by date.
func Encode(l *Ledger) ([]byte, error) {
	doc := document{
		Entries:        l.Entries(),
		PlannedTargets: l.PlannedTargets(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal ledger: %w", err)
	}
	return data, nil
}

// Decode parses a persisted ledger. Empty or unparseable input yields an
// empty ledger. Records with a malformed date, a negative count or a
// non-positive target are dropped; a later record for the same date replaces
// an earlier one.
func Decode(data []byte) (*Ledger, DecodeStats) {
	l := New()
	var stats DecodeStats
	if len(data) == 0 {
		return l, stats
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		stats.Corrupt = true
		return l, stats
	}

	for _, msg := range append(raw.Logs, raw.Entries...) {
		var e DayEntry
		if err := json.Unmarshal(msg, &e); err != nil || validateEntry(e) != nil {
			stats.Dropped++
			continue
		}
		l.putEntry(e)
	}
	for _, msg := range raw.PlannedTargets {
		var p PlannedTarget
		if err := json.Unmarshal(msg, &p); err != nil || validatePlan(p) != nil {
			stats.Dropped++
			continue
		}
		l.putPlan(p)
	}
	return l, stats
}

func validateEntry(e DayEntry) error {
	if !ValidDate(e.Date) {
		return fmt.Errorf("%w: malformed date %q", ErrInvalidArgument, e.Date)
	}
	if e.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidArgument, e.Count)
	}
	if e.Target <= 0 {
		return fmt.Errorf("%w: non-positive target %d", ErrInvalidArgument, e.Target)
	}
	return nil
}

func validatePlan(p PlannedTarget) error {
	if !ValidDate(p.Date) {
		return fmt.Errorf("%w: malformed date %q", ErrInvalidArgument, p.Date)
	}
	if p.Target <= 0 {
		return fmt.Errorf("%w: non-positive target %d", ErrInvalidArgument, p.Target)
	}
	return nil
}
