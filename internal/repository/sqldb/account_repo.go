package sqldb

import (
	"context"

	alertdomain "github.com/micro-ha/nocontact/internal/domain/alert"
	profiledomain "github.com/micro-ha/nocontact/internal/domain/profile"
)

// ProfileRepository is the SQL implementation of profile.Repository.
type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (profiledomain.Profile, error) {
	p, err := r.db.storage.GetProfile(ctx, userID)
	return p, mapNotFound(err, profiledomain.ErrProfileNotFound)
}

func (r *ProfileRepository) InsertProfile(ctx context.Context, p profiledomain.Profile) error {
	return r.db.storage.InsertProfile(ctx, p)
}

func (r *ProfileRepository) UpdateProfile(ctx context.Context, p profiledomain.Profile) error {
	return mapNotFound(r.db.storage.UpdateProfile(ctx, p), profiledomain.ErrProfileNotFound)
}

// AlertRepository is the SQL implementation of alert.Repository.
type AlertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) ListAlerts(ctx context.Context, userID string, filter alertdomain.Filter) ([]alertdomain.Record, error) {
	return r.db.storage.ListAlerts(ctx, userID, filter)
}

func (r *AlertRepository) InsertAlert(ctx context.Context, rec alertdomain.Record) error {
	return r.db.storage.InsertAlert(ctx, rec)
}
