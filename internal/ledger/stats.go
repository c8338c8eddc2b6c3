package ledger

import "fmt"

// Progress returns count as a percentage of target, capped at 100.
func Progress(count, target int) float64 {
	if target <= 0 || count <= 0 {
		return 0
	}
	p := float64(count) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Met reports whether the entry reached its target.
func Met(e DayEntry) bool {
	return e.Target > 0 && e.Count >= e.Target
}

// History returns the last days calendar days ending at today, oldest first.
// Days without an entry get a zero count. Their target is the one that would
// apply if the day is today or later; past days never captured one, so their
// target is zero.
func (e *Engine) History(l *Ledger, today string, days int) ([]DayEntry, error) {
	if _, err := ParseDate(today); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: history length must be positive, got %d", ErrInvalidArgument, days)
	}

	now := e.Today()
	out := make([]DayEntry, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := mustAddDays(today, -i)
		if entry, ok := l.Entry(date); ok {
			out = append(out, entry)
			continue
		}
		filled := DayEntry{Date: date}
		if date >= now {
			filled.Target = e.resolve(l, date)
		}
		out = append(out, filled)
	}
	return out, nil
}

// UpcomingDates returns the n dates following today.
func UpcomingDates(today string, n int) ([]string, error) {
	if _, err := ParseDate(today); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: upcoming length must be positive, got %d", ErrInvalidArgument, n)
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, mustAddDays(today, i))
	}
	return out, nil
}

// Summary aggregates the figures shown on stats screens.
type Summary struct {
	Today        DayEntry
	Streak       int
	Lifetime     int
	DaysRecorded int
	DaysMet      int
	Best         DayEntry
	Planned      int
}

// Summarize computes a Summary as of today.
func (e *Engine) Summarize(l *Ledger, today string) (Summary, error) {
	if _, err := ParseDate(today); err != nil {
		return Summary{}, err
	}

	s := Summary{
		Lifetime:     e.TotalLifetimeCount(l),
		DaysRecorded: l.EntryCount(),
	}
	if entry, ok := l.Entry(today); ok {
		s.Today = entry
	} else {
		s.Today = DayEntry{Date: today, Target: e.resolve(l, today)}
	}

	streak, err := e.ComputeStreak(l, today, s.Today.Count)
	if err != nil {
		return Summary{}, err
	}
	s.Streak = streak

	for _, entry := range l.Entries() {
		if Met(entry) {
			s.DaysMet++
		}
		if entry.Count > s.Best.Count {
			s.Best = entry
		}
	}
	for _, p := range l.PlannedTargets() {
		if p.Date > today {
			s.Planned++
		}
	}
	return s, nil
}
