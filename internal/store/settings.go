package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/slidehand/internal/config"
)

const tuningKey = "tuning"

// SettingsRepository stores key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetTuning returns the persisted runtime tuning, or fallback if none was saved.
func (r *SettingsRepository) GetTuning(fallback config.Tuning) (config.Tuning, error) {
	value, err := r.Get(tuningKey)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}

	t := fallback
	if err := json.Unmarshal([]byte(value), &t); err != nil {
		return fallback, fmt.Errorf("invalid stored tuning: %w", err)
	}
	return t, nil
}

// SetTuning persists the runtime tuning.
func (r *SettingsRepository) SetTuning(t config.Tuning) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.Set(tuningKey, string(data))
}
