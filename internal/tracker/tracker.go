// Package tracker is the session glue between the ledger engine and the
// store: it owns the in-memory ledger for one namespace and persists it after
// every successful mutation.
package tracker

import (
	"fmt"
	"time"

	"github.com/sadopc/istighfar/internal/ledger"
	"github.com/sadopc/istighfar/internal/store"
	"go.uber.org/zap"
)

// Tracker is not safe for concurrent use; the TUI calls it only from its
// update loop and the CLI from a single command.
type Tracker struct {
	store     *store.Store
	engine    *ledger.Engine
	ledger    *ledger.Ledger
	namespace string
	log       *zap.Logger
}

// Open loads the ledger saved under namespace. A corrupt blob is logged and
// replaced by an empty ledger on the next save.
func Open(s *store.Store, namespace string, log *zap.Logger) (*Tracker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := s.TargetPolicy()
	if err != nil {
		log.Warn("invalid target policy settings, using fixed default", zap.Error(err))
		policy = ledger.FixedTarget(ledger.DefaultTarget)
	}

	l, stats, err := s.LoadLedger(namespace)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if stats.Corrupt {
		log.Warn("stored ledger is corrupt, starting empty", zap.String("namespace", namespace))
	}
	if stats.Dropped > 0 {
		log.Warn("dropped invalid ledger records",
			zap.String("namespace", namespace),
			zap.Int("dropped", stats.Dropped))
	}
	log.Info("ledger opened",
		zap.String("namespace", namespace),
		zap.Int("entries", l.EntryCount()),
		zap.Int("plans", l.PlanCount()))

	return &Tracker{
		store:     s,
		engine:    ledger.NewEngine(policy),
		ledger:    l,
		namespace: namespace,
		log:       log,
	}, nil
}

// SetClock replaces the engine clock. Tests use it to pin "today".
func (t *Tracker) SetClock(now func() time.Time) {
	t.engine.Now = now
}

func (t *Tracker) Namespace() string        { return t.namespace }
func (t *Tracker) Store() *store.Store      { return t.store }
func (t *Tracker) Ledger() *ledger.Ledger   { return t.ledger }
func (t *Tracker) Engine() *ledger.Engine   { return t.engine }
func (t *Tracker) Today() string            { return t.engine.Today() }
func (t *Tracker) Settings() store.Settings { return t.store.LoadSettings() }

// TodayEntry returns today's entry, or a zero-count entry carrying the target
// that would apply.
func (t *Tracker) TodayEntry() ledger.DayEntry {
	today := t.Today()
	if e, ok := t.ledger.Entry(today); ok {
		return e
	}
	target, _ := t.engine.ResolveTarget(t.ledger, today)
	return ledger.DayEntry{Date: today, Target: target}
}

// Add changes today's count by delta.
func (t *Tracker) Add(delta int) (ledger.RecordResult, error) {
	var res ledger.RecordResult
	err := t.mutate("increment", func(l *ledger.Ledger) error {
		var err error
		res, err = t.engine.Increment(l, t.Today(), delta)
		return err
	})
	if err == nil {
		t.logRecord(res)
	}
	return res, err
}

// SetCount overwrites the count for date.
func (t *Tracker) SetCount(date string, n int) (ledger.RecordResult, error) {
	var res ledger.RecordResult
	err := t.mutate("record", func(l *ledger.Ledger) error {
		var err error
		res, err = t.engine.RecordCount(l, date, n)
		return err
	})
	if err == nil {
		t.logRecord(res)
	}
	return res, err
}

// Reset zeroes today's count.
func (t *Tracker) Reset() (ledger.RecordResult, error) {
	var res ledger.RecordResult
	err := t.mutate("reset", func(l *ledger.Ledger) error {
		var err error
		res, err = t.engine.Reset(l, t.Today())
		return err
	})
	if err == nil {
		t.logRecord(res)
	}
	return res, err
}

// SetTarget sets today's target or plans a future one.
func (t *Tracker) SetTarget(date string, target int) error {
	err := t.mutate("set target", func(l *ledger.Ledger) error {
		return t.engine.SetTarget(l, date, target)
	})
	if err == nil {
		t.log.Info("target set", zap.String("date", date), zap.Int("target", target))
	}
	return err
}

// CorrectTarget edits the sealed target of a past day.
func (t *Tracker) CorrectTarget(date string, target int) error {
	err := t.mutate("correct target", func(l *ledger.Ledger) error {
		return t.engine.CorrectTarget(l, date, target)
	})
	if err == nil {
		t.log.Warn("historical target corrected", zap.String("date", date), zap.Int("target", target))
	}
	return err
}

// ClearPlan removes a future planned target.
func (t *Tracker) ClearPlan(date string) (bool, error) {
	var removed bool
	err := t.mutate("clear plan", func(l *ledger.Ledger) error {
		var err error
		removed, err = t.engine.ClearPlan(l, date)
		return err
	})
	if err == nil && removed {
		t.log.Info("plan cleared", zap.String("date", date))
	}
	return removed, err
}

// Replace swaps in an imported ledger and saves it.
func (t *Tracker) Replace(l *ledger.Ledger) error {
	if err := t.store.SaveLedger(t.namespace, l); err != nil {
		return fmt.Errorf("save imported ledger: %w", err)
	}
	t.ledger = l
	t.log.Info("ledger replaced",
		zap.String("namespace", t.namespace),
		zap.Int("entries", l.EntryCount()),
		zap.Int("plans", l.PlanCount()))
	return nil
}

// ReloadPolicy rebuilds the default-target policy after settings change.
func (t *Tracker) ReloadPolicy() error {
	policy, err := t.store.TargetPolicy()
	if err != nil {
		return err
	}
	t.engine.Policy = policy
	return nil
}

func (t *Tracker) Streak() int {
	n, err := t.engine.ComputeStreak(t.ledger, t.Today(), t.TodayEntry().Count)
	if err != nil {
		t.log.Error("compute streak", zap.Error(err))
		return 0
	}
	return n
}

func (t *Tracker) Lifetime() int {
	return t.engine.TotalLifetimeCount(t.ledger)
}

func (t *Tracker) Summary() (ledger.Summary, error) {
	return t.engine.Summarize(t.ledger, t.Today())
}

// History returns the days calendar days ending offset days before today.
func (t *Tracker) History(days, offset int) ([]ledger.DayEntry, error) {
	end, err := ledger.AddDays(t.Today(), -offset)
	if err != nil {
		return nil, err
	}
	return t.engine.History(t.ledger, end, days)
}

// Upcoming returns the next n days with the target each would get.
func (t *Tracker) Upcoming(n int) ([]Upcoming, error) {
	dates, err := ledger.UpcomingDates(t.Today(), n)
	if err != nil {
		return nil, err
	}
	out := make([]Upcoming, 0, len(dates))
	for _, d := range dates {
		target, err := t.engine.ResolveTarget(t.ledger, d)
		if err != nil {
			return nil, err
		}
		_, planned := t.ledger.Plan(d)
		_, recorded := t.ledger.Entry(d)
		out = append(out, Upcoming{Date: d, Target: target, Planned: planned, Recorded: recorded})
	}
	return out, nil
}

// Upcoming is one row of the planner. A Recorded day already has an entry,
// so its target is fixed and plans for it never take effect.
type Upcoming struct {
	Date     string
	Target   int
	Planned  bool
	Recorded bool
}

// mutate applies fn to a copy of the ledger and only keeps the result once
// it is saved, so a failed write never leaves memory ahead of disk.
func (t *Tracker) mutate(op string, fn func(*ledger.Ledger) error) error {
	next := t.ledger.Clone()
	if err := fn(next); err != nil {
		t.log.Debug("mutation rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	if err := t.store.SaveLedger(t.namespace, next); err != nil {
		t.log.Error("save ledger", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("save ledger: %w", err)
	}
	t.ledger = next
	return nil
}

func (t *Tracker) logRecord(res ledger.RecordResult) {
	t.log.Info("count recorded",
		zap.String("date", res.Entry.Date),
		zap.Int("count", res.Entry.Count),
		zap.Int("previous", res.Previous),
		zap.Int("target", res.Entry.Target))
	if res.TargetJustMet {
		t.log.Info("target met", zap.String("date", res.Entry.Date), zap.Int("target", res.Entry.Target))
	}
}
