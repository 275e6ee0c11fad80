package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-ha/nocontact/internal/domain/alert"
	"github.com/micro-ha/nocontact/internal/model"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestDeviceCRUD(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	created := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)

	older := model.Device{ID: "d1", UserID: "u1", PhoneNumber: "+15550001", Location: "Kitchen",
		NoContactPeriod: "24:00:00", Active: true, CreatedAt: created, UpdatedAt: created}
	newer := model.Device{ID: "d2", UserID: "u1", PhoneNumber: "+15550002", Location: "Hall",
		NoContactPeriod: "12:00:00", Active: false, CreatedAt: created.Add(time.Hour), UpdatedAt: created}
	other := model.Device{ID: "d3", UserID: "u2", PhoneNumber: "+15550001", Location: "Porch",
		NoContactPeriod: "6:00:00", Active: true, CreatedAt: created, UpdatedAt: created}
	for _, d := range []model.Device{older, newer, other} {
		require.NoError(t, repo.InsertDevice(ctx, d))
	}

	items, err := repo.ListDevices(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "d2", items[0].ID, "newest first")
	assert.Equal(t, "d1", items[1].ID)
	assert.False(t, items[0].Active)
	assert.Nil(t, items[0].LastActivityAt)

	all, err := repo.ListDevices(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetDevice(ctx, "u2", "d1")
	assert.True(t, errors.Is(err, ErrNotFound))

	older.Location = "Living Room"
	older.NoContactPeriod = "48:00:00"
	require.NoError(t, repo.UpdateDevice(ctx, older))
	got, err := repo.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "Living Room", got.Location)
	assert.Equal(t, "48:00:00", got.NoContactPeriod)

	assert.ErrorIs(t, repo.UpdateDevice(ctx, model.Device{ID: "missing", UserID: "u1"}), ErrNotFound)
	require.NoError(t, repo.DeleteDevice(ctx, "u1", "d2"))
	assert.ErrorIs(t, repo.DeleteDevice(ctx, "u1", "d2"), ErrNotFound)
}

func TestTouchActivityOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	created := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	for _, d := range []model.Device{
		{ID: "a", UserID: "u1", PhoneNumber: "+1555", Location: "A", NoContactPeriod: "24:00:00", Active: true, CreatedAt: created, UpdatedAt: created},
		{ID: "b", UserID: "u2", PhoneNumber: "+1555", Location: "B", NoContactPeriod: "24:00:00", Active: true, CreatedAt: created, UpdatedAt: created},
		{ID: "c", UserID: "u2", PhoneNumber: "+1666", Location: "C", NoContactPeriod: "24:00:00", Active: true, CreatedAt: created, UpdatedAt: created},
	} {
		require.NoError(t, repo.InsertDevice(ctx, d))
	}

	at := time.Date(2025, 11, 2, 9, 30, 0, 500, time.UTC)
	touched := time.Date(2025, 11, 2, 9, 31, 0, 0, time.UTC)
	n, err := repo.TouchActivity(ctx, "+1555", at, touched)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.TouchActivity(ctx, "+1555", at.Add(-time.Minute), touched)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "older signal must not rewind")

	n, err = repo.TouchActivity(ctx, "+1555", at.Add(time.Second), touched.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := repo.GetDevice(ctx, "u1", "a")
	require.NoError(t, err)
	require.NotNil(t, got.LastActivityAt)
	assert.True(t, got.LastActivityAt.Equal(at.Add(time.Second)))
	assert.True(t, got.UpdatedAt.Equal(touched.Add(time.Minute)), "updated_at = %s", got.UpdatedAt)

	untouched, err := repo.GetDevice(ctx, "u2", "c")
	require.NoError(t, err)
	assert.Nil(t, untouched.LastActivityAt)
}

func TestActivityEvents(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	base := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	device := "d1"
	msg := "ping"
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.InsertActivityEvent(ctx, model.ActivityEvent{
			ID: string(rune('a' + i)), DeviceID: &device, PhoneNumber: "+1555", Message: &msg,
			Source: "http", ReceivedAt: base.Add(time.Duration(i) * time.Hour), CreatedAt: base,
		}))
	}
	require.NoError(t, repo.InsertActivityEvent(ctx, model.ActivityEvent{
		ID: "orphan", PhoneNumber: "+1999", Source: "mqtt", ReceivedAt: base, CreatedAt: base,
	}))

	events, err := repo.ListActivityEvents(ctx, device, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "c", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
	require.NotNil(t, events[0].Message)
	assert.Equal(t, "ping", *events[0].Message)
}

func TestContactsAndProfiles(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	email := "daughter@example.com"
	empty := "  "

	require.NoError(t, repo.InsertContact(ctx, model.Contact{
		ID: "c1", UserID: "u1", ContactName: "Ana", Email: &email, PhoneNumber: &empty,
		NotificationMethods: []string{"email", "sms"}, CreatedAt: now, UpdatedAt: now,
	}))
	contacts, err := repo.ListContacts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, []string{"email", "sms"}, contacts[0].NotificationMethods)
	assert.Nil(t, contacts[0].PhoneNumber, "blank optional fields are stored as NULL")
	assert.Nil(t, contacts[0].Relationship)

	_, err = repo.GetContact(ctx, "u2", "c1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteContact(ctx, "u2", "c1"), ErrNotFound)

	_, err = repo.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, repo.InsertProfile(ctx, model.Profile{
		ID: "u1", Email: "carer@example.com", FullName: "Carer", NotificationMethods: []string{"voice"},
		Role: "user", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.UpdateProfile(ctx, model.Profile{
		ID: "u1", Email: "ignored@example.com", FullName: "Carer Two", NotificationMethods: []string{"sms"}, UpdatedAt: now,
	}))
	profile, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "carer@example.com", profile.Email)
	assert.Equal(t, "Carer Two", profile.FullName)
	assert.Equal(t, []string{"sms"}, profile.NotificationMethods)
}

func TestAlertsFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	base := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	phoneA := "+1555"
	phoneB := "+1666"
	records := []model.AlertRecord{
		{ID: "1", UserID: "u1", AlertType: "inactivity", NotificationMethod: "email", Status: "sent", Message: "m", DevicePhoneNumber: &phoneA, CreatedAt: base},
		{ID: "2", UserID: "u1", AlertType: "inactivity", NotificationMethod: "sms", Status: "failed", Message: "m", DevicePhoneNumber: &phoneB, CreatedAt: base.Add(time.Hour)},
		{ID: "3", UserID: "u1", AlertType: "inactivity", NotificationMethod: "voice_call", Status: "sent", Message: "m", DevicePhoneNumber: &phoneA, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", UserID: "u2", AlertType: "inactivity", NotificationMethod: "email", Status: "sent", Message: "m", CreatedAt: base},
	}
	for _, rec := range records {
		require.NoError(t, repo.InsertAlert(ctx, rec))
	}

	all, err := repo.ListAlerts(ctx, "u1", alert.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].ID)

	byPhone, err := repo.ListAlerts(ctx, "u1", alert.Filter{DevicePhoneNumber: phoneA})
	require.NoError(t, err)
	require.Len(t, byPhone, 2)

	sent, err := repo.ListAlerts(ctx, "u1", alert.Filter{Status: "sent", Limit: 1})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "3", sent[0].ID)
}

func TestRebindPostgresPlaceholders(t *testing.T) {
	pg := NewWithDB(nil, "postgresql", nil)
	assert.Equal(t, DriverPostgres, pg.Driver())
	assert.Equal(t, "UPDATE t SET a = $1 WHERE b = $2 AND c < $3", pg.rebind("UPDATE t SET a = ? WHERE b = ? AND c < ?"))

	lite := NewWithDB(nil, "", nil)
	assert.Equal(t, DriverSQLite, lite.Driver())
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestPostgresQueriesUseNumberedArgs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWithDB(db, DriverPostgres, nil)
	mock.ExpectExec(`DELETE FROM phone_lines WHERE id = \$1 AND user_id = \$2`).
		WithArgs("d1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM phone_lines`).
		WithArgs("d2", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteDevice(context.Background(), "u1", "d1"))
	assert.ErrorIs(t, repo.DeleteDevice(context.Background(), "u1", "d2"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDevicesPropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWithDB(db, DriverSQLite, nil)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT .* FROM phone_lines WHERE user_id = \?`).
		WithArgs("u1").
		WillReturnError(boom)

	_, err = repo.ListDevices(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMethodsJSON(t *testing.T) {
	assert.Equal(t, "[]", EncodeMethodsJSON(nil))
	assert.Equal(t, `["email","voice"]`, EncodeMethodsJSON([]string{"email", "voice"}))
	assert.Equal(t, []string{}, ParseMethodsJSON(""))
	assert.Equal(t, []string{}, ParseMethodsJSON("not json"))
	assert.Equal(t, []string{}, ParseMethodsJSON("null"))
	assert.Equal(t, []string{"sms"}, ParseMethodsJSON(`["sms"]`))
}
