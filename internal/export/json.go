package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/istighfar/internal/ledger"
)

// jsonExport keeps the persisted ledger keys so a backup can be imported
// back with ledger.Decode.
type jsonExport struct {
	ExportedAt     string                 `json:"exported_at"`
	Count          int                    `json:"count"`
	Lifetime       int                    `json:"lifetime"`
	Entries        []ledger.DayEntry      `json:"entries"`
	PlannedTargets []ledger.PlannedTarget `json:"plannedTargets"`
}

func ToJSON(l *ledger.Ledger, path string) error {
	entries := l.Entries()
	lifetime := 0
	for _, e := range entries {
		lifetime += e.Count
	}

	export := jsonExport{
		ExportedAt:     time.Now().UTC().Format(time.RFC3339),
		Count:          len(entries),
		Lifetime:       lifetime,
		Entries:        entries,
		PlannedTargets: l.PlannedTargets(),
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a backup written by ToJSON, or a raw persisted ledger blob.
// Invalid records are dropped as ledger.Decode does; an unreadable file is
// an error, unlike a corrupt store blob, since the user asked for this file.
func FromJSON(path string) (*ledger.Ledger, ledger.DecodeStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ledger.DecodeStats{}, fmt.Errorf("read json file: %w", err)
	}
	l, stats := ledger.Decode(data)
	if stats.Corrupt {
		return nil, stats, fmt.Errorf("parse json file %s: not a ledger backup", path)
	}
	return l, stats, nil
}
