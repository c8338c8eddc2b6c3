package ledger

import "fmt"

// DefaultTarget is the fixed target used when nothing else is configured.
const DefaultTarget = 100

// TargetPolicy supplies the target for a day that has neither an entry nor a
// plan.
type TargetPolicy interface {
	DefaultTarget(l *Ledger) int
}

// FixedTarget always yields the same target.
type FixedTarget int

func (f FixedTarget) DefaultTarget(*Ledger) int { return int(f) }

// GrowingTarget raises the default by Step for every recorded day:
// Base + Step*entries.
type GrowingTarget struct {
	Base int
	Step int
}

func (g GrowingTarget) DefaultTarget(l *Ledger) int {
	n := 0
	if l != nil {
		n = l.EntryCount()
	}
	return g.Base + g.Step*n
}

const (
	PolicyFixed   = "fixed"
	PolicyGrowing = "growing"
)

// NewPolicy builds a policy by name. base must be positive and step must not
// be negative.
func NewPolicy(name string, base, step int) (TargetPolicy, error) {
	if base <= 0 {
		return nil, fmt.Errorf("%w: default target must be positive, got %d", ErrInvalidArgument, base)
	}
	switch name {
	case PolicyFixed, "":
		return FixedTarget(base), nil
	case PolicyGrowing:
		if step < 0 {
			return nil, fmt.Errorf("%w: target step must not be negative, got %d", ErrInvalidArgument, step)
		}
		return GrowingTarget{Base: base, Step: step}, nil
	}
	return nil, fmt.Errorf("%w: unknown target policy %q", ErrInvalidArgument, name)
}
