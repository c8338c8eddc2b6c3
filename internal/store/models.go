package store

import "time"

// Namespace describes one saved ledger.
type Namespace struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// Settings is the typed view of the settings table.
type Settings struct {
	DefaultTarget int
	TargetPolicy  string
	TargetStep    int
	PlanDays      int
	HistoryDays   int
}

// Setting keys.
const (
	KeyDefaultTarget = "default_target"
	KeyTargetPolicy  = "target_policy"
	KeyTargetStep    = "target_step"
	KeyPlanDays      = "plan_days"
	KeyHistoryDays   = "history_days"
)
