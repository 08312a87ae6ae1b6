// Package subscriber reconciles subscriber lifecycle state against the
// persistent directory.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/database"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/line"
)

// Store is the persistence the directory needs.
type Store interface {
	GetSubscriber(ctx context.Context, userID string) (*database.Subscriber, error)
	CreateSubscriber(ctx context.Context, userID, displayName, status string) (*database.Subscriber, error)
	UpdateSubscriberStatus(ctx context.Context, userID, status string) error
}

// ProfileFetcher looks up a user's profile on the messaging platform.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
}

// Directory keeps subscriber records in step with what the platform reports.
type Directory struct {
	store    Store
	profiles ProfileFetcher
	logger   *slog.Logger
}

// NewDirectory creates a directory over the given store and profile source.
func NewDirectory(store Store, profiles ProfileFetcher, logger *slog.Logger) *Directory {
	return &Directory{store: store, profiles: profiles, logger: logger}
}

// Reconcile brings the record for userID in line with the platform's view.
//
// An unseen user gets exactly one record: active when the profile fetch
// succeeds, blocked when the platform reports the user blocked the channel.
// A transient fetch failure persists nothing. A known user only gets a
// write on the active->blocked transition; repeat events from an active
// subscriber are a no-op.
func (d *Directory) Reconcile(ctx context.Context, userID string) error {
	existing, err := d.store.GetSubscriber(ctx, userID)
	if err != nil {
		return fmt.Errorf("subscriber lookup: %w", err)
	}

	if existing == nil {
		return d.register(ctx, userID)
	}

	_, err = d.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		// Still an active friend; nothing to write.
		return nil
	case errors.Is(err, line.ErrRecipientBlocked):
		if existing.Status == database.StatusBlocked {
			return nil
		}
		if err := d.store.UpdateSubscriberStatus(ctx, userID, database.StatusBlocked); err != nil {
			d.logger.Error("failed to mark subscriber blocked", "userId", userID, "error", err)
			return fmt.Errorf("update subscriber status: %w", err)
		}
		d.logger.Warn("subscriber blocked or unfriended", "userId", userID)
		return nil
	default:
		d.logger.Error("failed to fetch subscriber profile", "userId", userID, "error", err)
		return fmt.Errorf("profile fetch: %w", err)
	}
}

func (d *Directory) register(ctx context.Context, userID string) error {
	profile, err := d.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		if _, err := d.store.CreateSubscriber(ctx, userID, profile.DisplayName, database.StatusActive); err != nil {
			d.logger.Error("failed to persist new subscriber", "userId", userID, "error", err)
			return fmt.Errorf("create subscriber: %w", err)
		}
		d.logger.Info("new subscriber registered", "userId", userID, "displayName", profile.DisplayName)
		return nil
	case errors.Is(err, line.ErrRecipientBlocked):
		// First sighting of a user who already blocked the channel.
		if _, err := d.store.CreateSubscriber(ctx, userID, "", database.StatusBlocked); err != nil {
			d.logger.Error("failed to persist blocked subscriber", "userId", userID, "error", err)
			return fmt.Errorf("create subscriber: %w", err)
		}
		d.logger.Warn("subscriber blocked before first contact", "userId", userID)
		return nil
	default:
		// No partial record on a transient failure; the next event retries.
		d.logger.Error("failed to fetch subscriber profile", "userId", userID, "error", err)
		return fmt.Errorf("profile fetch: %w", err)
	}
}
