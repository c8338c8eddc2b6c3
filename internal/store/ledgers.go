package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/istighfar/internal/ledger"
)

// Load returns the raw ledger blob saved under namespace. ok is false when
// nothing has been saved yet.
func (s *Store) Load(namespace string) (data []byte, ok bool, err error) {
	var blob string
	err = s.db.QueryRow(`SELECT data FROM ledgers WHERE namespace = ?`, namespace).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load ledger %q: %w", namespace, err)
	}
	return []byte(blob), true, nil
}

// Save replaces the blob stored under namespace.
func (s *Store) Save(namespace string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO ledgers (namespace, data, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		namespace, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("save ledger %q: %w", namespace, err)
	}
	return nil
}

// LoadLedger decodes the ledger saved under namespace. A missing or corrupt
// blob yields an empty ledger; stats tells the caller what was discarded.
func (s *Store) LoadLedger(namespace string) (*ledger.Ledger, ledger.DecodeStats, error) {
	data, ok, err := s.Load(namespace)
	if err != nil {
		return nil, ledger.DecodeStats{}, err
	}
	if !ok {
		return ledger.New(), ledger.DecodeStats{}, nil
	}
	l, stats := ledger.Decode(data)
	return l, stats, nil
}

func (s *Store) SaveLedger(namespace string, l *ledger.Ledger) error {
	data, err := ledger.Encode(l)
	if err != nil {
		return err
	}
	return s.Save(namespace, data)
}

// ListNamespaces returns every saved namespace in name order.
func (s *Store) ListNamespaces() ([]Namespace, error) {
	rows, err := s.db.Query(`SELECT namespace, created_at, updated_at FROM ledgers ORDER BY namespace`)
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	defer rows.Close()

	var out []Namespace
	for rows.Next() {
		var n Namespace
		var createdAt, updatedAt string
		if err := rows.Scan(&n.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		n.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) DeleteNamespace(namespace string) error {
	_, err := s.db.Exec(`DELETE FROM ledgers WHERE namespace = ?`, namespace)
	return err
}
