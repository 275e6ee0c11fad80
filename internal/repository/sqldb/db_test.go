package sqldb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactdomain "github.com/micro-ha/nocontact/internal/domain/contact"
	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	profiledomain "github.com/micro-ha/nocontact/internal/domain/profile"
	"github.com/micro-ha/nocontact/internal/model"
)

func TestRepositoriesMapNotFound(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "repo.db"), nil)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", db.Driver())
	assert.NotNil(t, db.SQLDB())

	devices := NewDeviceRepository(db)
	_, err = devices.GetDevice(ctx, "u1", "missing")
	assert.ErrorIs(t, err, devicedomain.ErrDeviceNotFound)
	assert.ErrorIs(t, devices.DeleteDevice(ctx, "u1", "missing"), devicedomain.ErrDeviceNotFound)

	contacts := NewContactRepository(db)
	_, err = contacts.GetContact(ctx, "u1", "missing")
	assert.ErrorIs(t, err, contactdomain.ErrContactNotFound)

	profiles := NewProfileRepository(db)
	_, err = profiles.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, profiledomain.ErrProfileNotFound)

	now := time.Now().UTC()
	require.NoError(t, devices.InsertDevice(ctx, model.Device{
		ID: "d1", UserID: "u1", PhoneNumber: "+1555", Location: "Kitchen",
		NoContactPeriod: "24:00:00", Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	got, err := devices.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", got.Location)
}
