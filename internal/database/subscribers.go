package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// Subscriber lifecycle statuses. There is no blocked->active transition; a
// blocked record stays blocked.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Subscriber is a tracked end-user of the channel.
type Subscriber struct {
	UserID      string
	DisplayName string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetSubscriber retrieves a subscriber by platform user ID. Returns nil when
// no record exists.
func (db *DB) GetSubscriber(ctx context.Context, userID string) (*Subscriber, error) {
	var s Subscriber
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, display_name, status, created_at, updated_at
		 FROM subscribers WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.DisplayName, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSubscriber writes a first-sighting record. Two concurrent first
// events for the same user may both land here, so this is an upsert: both
// writers carry the same profile and last write wins.
func (db *DB) CreateSubscriber(ctx context.Context, userID, displayName, status string) (*Subscriber, error) {
	var s Subscriber
	err := db.pool.QueryRow(ctx,
		`INSERT INTO subscribers (user_id, display_name, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET display_name = EXCLUDED.display_name,
		     status = EXCLUDED.status,
		     updated_at = now()
		 RETURNING user_id, display_name, status, created_at, updated_at`,
		userID, displayName, status,
	).Scan(&s.UserID, &s.DisplayName, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSubscriberStatus changes only the lifecycle status, preserving the
// display name and creation time.
func (db *DB) UpdateSubscriberStatus(ctx context.Context, userID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE subscribers SET status = $1, updated_at = now() WHERE user_id = $2`,
		status, userID,
	)
	return err
}
