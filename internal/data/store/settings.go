package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns the stored value for key, or ok=false when unset.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores or replaces a setting value.
func (s *Store) SetSetting(key, value string) error {
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	return nil
}
