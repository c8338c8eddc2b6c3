package ledger

import (
	"fmt"
	"time"
)

// maxStreakDays bounds the streak walk on corrupt or enormous ledgers.
const maxStreakDays = 365

// Engine applies target resolution, recording and streak rules to a Ledger.
// All methods are synchronous and touch only the ledger passed in.
type Engine struct {
	Policy TargetPolicy
	Now    func() time.Time
}

// NewEngine returns an engine using policy and the wall clock. A nil policy
// falls back to FixedTarget(DefaultTarget).
func NewEngine(policy TargetPolicy) *Engine {
	if policy == nil {
		policy = FixedTarget(DefaultTarget)
	}
	return &Engine{Policy: policy, Now: time.Now}
}

// Today returns the engine's current local calendar date.
func (e *Engine) Today() string {
	if e.Now == nil {
		return FormatDate(time.Now())
	}
	return FormatDate(e.Now())
}

// RecordResult describes the outcome of RecordCount.
type RecordResult struct {
	Entry    DayEntry
	Previous int
	// TargetJustMet is set only when this call moved the count from below
	// the target to at or above it.
	TargetJustMet bool
}

// ResolveTarget returns the effective target for date: the recorded entry's
// target, then a planned target, then the policy default.
func (e *Engine) ResolveTarget(l *Ledger, date string) (int, error) {
	if _, err := ParseDate(date); err != nil {
		return 0, err
	}
	return e.resolve(l, date), nil
}

func (e *Engine) resolve(l *Ledger, date string) int {
	if entry, ok := l.Entry(date); ok {
		return entry.Target
	}
	if plan, ok := l.Plan(date); ok {
		return plan.Target
	}
	policy := e.Policy
	if policy == nil {
		policy = FixedTarget(DefaultTarget)
	}
	return policy.DefaultTarget(l)
}

// RecordCount stores newCount as the count for date. An existing entry keeps
// its target; a new entry takes the target resolved before insertion.
func (e *Engine) RecordCount(l *Ledger, date string, newCount int) (RecordResult, error) {
	if l == nil {
		return RecordResult{}, errNilLedger
	}
	if _, err := ParseDate(date); err != nil {
		return RecordResult{}, err
	}
	if newCount < 0 {
		return RecordResult{}, fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidArgument, newCount)
	}

	entry, ok := l.Entry(date)
	if !ok {
		entry = DayEntry{Date: date, Target: e.resolve(l, date)}
	}
	prev := entry.Count
	entry.Count = newCount
	l.putEntry(entry)

	return RecordResult{
		Entry:         entry,
		Previous:      prev,
		TargetJustMet: prev < entry.Target && newCount >= entry.Target,
	}, nil
}

// Increment adds delta to the count for date, flooring at zero.
func (e *Engine) Increment(l *Ledger, date string, delta int) (RecordResult, error) {
	if l == nil {
		return RecordResult{}, errNilLedger
	}
	if _, err := ParseDate(date); err != nil {
		return RecordResult{}, err
	}
	current := 0
	if entry, ok := l.Entry(date); ok {
		current = entry.Count
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	return e.RecordCount(l, date, next)
}

// Reset sets the count for date back to zero.
func (e *Engine) Reset(l *Ledger, date string) (RecordResult, error) {
	return e.RecordCount(l, date, 0)
}

// SetTarget sets the target for today or plans one for a future date. Past
// dates are sealed; use CorrectTarget for deliberate historical edits.
func (e *Engine) SetTarget(l *Ledger, date string, newTarget int) error {
	if l == nil {
		return errNilLedger
	}
	if _, err := ParseDate(date); err != nil {
		return err
	}
	if newTarget <= 0 {
		return fmt.Errorf("%w: target must be positive, got %d", ErrInvalidArgument, newTarget)
	}

	today := e.Today()
	switch {
	case date == today:
		entry, ok := l.Entry(date)
		if !ok {
			entry = DayEntry{Date: date}
		}
		entry.Target = newTarget
		l.putEntry(entry)
	case date > today:
		l.putPlan(PlannedTarget{Date: date, Target: newTarget})
	default:
		return fmt.Errorf("%w: %s is in the past and its target is sealed", ErrInvalidArgument, date)
	}
	return nil
}

// CorrectTarget rewrites the target of a past day, creating a zero-count
// entry if none exists. Today and future dates go through SetTarget.
func (e *Engine) CorrectTarget(l *Ledger, date string, newTarget int) error {
	if l == nil {
		return errNilLedger
	}
	if _, err := ParseDate(date); err != nil {
		return err
	}
	if newTarget <= 0 {
		return fmt.Errorf("%w: target must be positive, got %d", ErrInvalidArgument, newTarget)
	}
	if date >= e.Today() {
		return e.SetTarget(l, date, newTarget)
	}
	entry, ok := l.Entry(date)
	if !ok {
		entry = DayEntry{Date: date}
	}
	entry.Target = newTarget
	l.putEntry(entry)
	return nil
}

// ClearPlan removes the planned target for a future date. It reports whether
// a plan was removed.
func (e *Engine) ClearPlan(l *Ledger, date string) (bool, error) {
	if l == nil {
		return false, errNilLedger
	}
	if _, err := ParseDate(date); err != nil {
		return false, err
	}
	if date <= e.Today() {
		return false, fmt.Errorf("%w: only future plans can be cleared, got %s", ErrInvalidArgument, date)
	}
	if _, ok := l.Plan(date); !ok {
		return false, nil
	}
	delete(l.planned, date)
	return true, nil
}

// ComputeStreak counts consecutive days with a positive count ending at
// today, or at yesterday when referenceCount is zero and today has not
// started yet. Days must be exactly contiguous.
func (e *Engine) ComputeStreak(l *Ledger, today string, referenceCount int) (int, error) {
	if _, err := ParseDate(today); err != nil {
		return 0, err
	}
	if referenceCount < 0 {
		return 0, fmt.Errorf("%w: reference count must not be negative, got %d", ErrInvalidArgument, referenceCount)
	}

	cursor := today
	if referenceCount == 0 {
		cursor = mustAddDays(today, -1)
	}

	streak := 0
	for i := 0; i < maxStreakDays; i++ {
		entry, ok := l.Entry(cursor)
		if !ok || entry.Count <= 0 {
			break
		}
		streak++
		cursor = mustAddDays(cursor, -1)
	}
	return streak, nil
}

// TotalLifetimeCount sums the counts of all recorded days.
func (e *Engine) TotalLifetimeCount(l *Ledger) int {
	if l == nil {
		return 0
	}
	total := 0
	for _, entry := range l.entries {
		total += entry.Count
	}
	return total
}
