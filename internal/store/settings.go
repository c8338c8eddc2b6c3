package store

import (
	"fmt"
	"strconv"

	"github.com/sadopc/istighfar/internal/ledger"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadSettings reads the typed settings, falling back to defaults for keys
// that are missing or unparseable, and for day counts that are not positive.
func (s *Store) LoadSettings() Settings {
	return Settings{
		DefaultTarget: s.intSetting(KeyDefaultTarget, ledger.DefaultTarget),
		TargetPolicy:  s.stringSetting(KeyTargetPolicy, ledger.PolicyFixed),
		TargetStep:    s.intSetting(KeyTargetStep, 50),
		PlanDays:      s.positiveSetting(KeyPlanDays, 7),
		HistoryDays:   s.positiveSetting(KeyHistoryDays, 7),
	}
}

// SaveSettings validates and writes all typed settings.
func (s *Store) SaveSettings(st Settings) error {
	if _, err := ledger.NewPolicy(st.TargetPolicy, st.DefaultTarget, st.TargetStep); err != nil {
		return err
	}
	if st.PlanDays <= 0 || st.HistoryDays <= 0 {
		return fmt.Errorf("%w: plan and history days must be positive", ledger.ErrInvalidArgument)
	}
	pairs := [][2]string{
		{KeyDefaultTarget, strconv.Itoa(st.DefaultTarget)},
		{KeyTargetPolicy, st.TargetPolicy},
		{KeyTargetStep, strconv.Itoa(st.TargetStep)},
		{KeyPlanDays, strconv.Itoa(st.PlanDays)},
		{KeyHistoryDays, strconv.Itoa(st.HistoryDays)},
	}
	for _, p := range pairs {
		if err := s.SetSetting(p[0], p[1]); err != nil {
			return fmt.Errorf("set %s: %w", p[0], err)
		}
	}
	return nil
}

// TargetPolicy builds the default-target policy from settings.
func (s *Store) TargetPolicy() (ledger.TargetPolicy, error) {
	st := s.LoadSettings()
	return ledger.NewPolicy(st.TargetPolicy, st.DefaultTarget, st.TargetStep)
}

func (s *Store) intSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Store) positiveSetting(key string, fallback int) int {
	if n := s.intSetting(key, fallback); n > 0 {
		return n
	}
	return fallback
}

func (s *Store) stringSetting(key, fallback string) string {
	v, err := s.GetSetting(key)
	if err != nil || v == "" {
		return fallback
	}
	return v
}
