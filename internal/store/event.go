package store

import (
	"database/sql"
	"time"
)

// Event is one executed action as recorded in the log.
type Event struct {
	ID        int64     `json:"id"`
	Mode      string    `json:"mode"`
	Gesture   string    `json:"gesture"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository appends to and reads the event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create appends an event. A zero CreatedAt is set to now.
func (r *EventRepository) Create(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO events (mode, gesture, action, created_at) VALUES (?, ?, ?, ?)`,
		e.Mode, e.Gesture, e.Action, e.CreatedAt.UTC(),
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// List returns up to limit events, newest first. A limit below 1 returns all events.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	if limit < 1 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, mode, gesture, action, created_at FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Mode, &e.Gesture, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByAction returns how many times each action was executed.
func (r *EventRepository) CountByAction() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT action, COUNT(*) FROM events GROUP BY action`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[action] = n
	}

	return counts, rows.Err()
}

// Prune deletes events older than before and returns how many were removed.
func (r *EventRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
