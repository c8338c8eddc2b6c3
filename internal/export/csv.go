package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/istighfar/internal/ledger"
)

func ToCSV(entries []ledger.DayEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Count", "Target", "Progress", "Met"}); err != nil {
		return err
	}

	for _, e := range entries {
		met := "no"
		if ledger.Met(e) {
			met = "yes"
		}
		row := []string{
			e.Date,
			strconv.Itoa(e.Count),
			strconv.Itoa(e.Target),
			formatPercent(ledger.Progress(e.Count, e.Target)),
			met,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}
