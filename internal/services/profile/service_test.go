package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profiledomain "github.com/micro-ha/nocontact/internal/domain/profile"
	"github.com/micro-ha/nocontact/internal/model"
)

type memoryRepo struct {
	items     map[string]model.Profile
	inserts   int
	insertErr error
}

func (r *memoryRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	_ = ctx
	p, ok := r.items[userID]
	if !ok {
		return model.Profile{}, profiledomain.ErrProfileNotFound
	}
	return p, nil
}

func (r *memoryRepo) InsertProfile(ctx context.Context, p model.Profile) error {
	_ = ctx
	r.inserts++
	if r.insertErr != nil {
		return r.insertErr
	}
	r.items[p.ID] = p
	return nil
}

func (r *memoryRepo) UpdateProfile(ctx context.Context, p model.Profile) error {
	_ = ctx
	if _, ok := r.items[p.ID]; !ok {
		return profiledomain.ErrProfileNotFound
	}
	r.items[p.ID] = p
	return nil
}

func TestGetProfileProvisionsOnce(t *testing.T) {
	repo := &memoryRepo{items: map[string]model.Profile{}}
	svc := New(repo, nil)

	first, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", first.ID)
	assert.Equal(t, model.RoleUser, first.Role)
	assert.Equal(t, []string{model.MethodEmail}, first.NotificationMethods)

	_, err = svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.inserts)
}

func TestGetProfilePropagatesInsertError(t *testing.T) {
	repo := &memoryRepo{items: map[string]model.Profile{}, insertErr: errors.New("disk full")}
	svc := New(repo, nil)

	_, err := svc.GetProfile(context.Background(), "u1")
	assert.EqualError(t, err, "disk full")
}

func TestUpdateProfileKeepsEmailAndRole(t *testing.T) {
	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	repo := &memoryRepo{items: map[string]model.Profile{
		"u1": {ID: "u1", Email: "care@example.com", FullName: "Old", Role: model.RoleSuper, NotificationMethods: []string{"email"}, CreatedAt: created},
	}}
	svc := New(repo, nil)
	svc.now = func() time.Time { return created.Add(time.Hour) }

	p, err := svc.UpdateProfile(context.Background(), "u1", profiledomain.Input{
		FullName: " Jane Doe ", PhoneNumber: "+1 555-0100", NotificationMethods: []string{"sms", "email", "SMS"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Equal(t, "care@example.com", p.Email)
	assert.Equal(t, model.RoleSuper, p.Role)
	require.NotNil(t, p.PhoneNumber)
	assert.Equal(t, "+15550100", *p.PhoneNumber)
	assert.Equal(t, []string{"sms", "email"}, p.NotificationMethods)
	assert.Equal(t, created.Add(time.Hour), repo.items["u1"].UpdatedAt)
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := &memoryRepo{items: map[string]model.Profile{"u1": {ID: "u1", FullName: "Jane"}}}
	svc := New(repo, nil)

	_, err := svc.UpdateProfile(context.Background(), "u1", profiledomain.Input{FullName: " "})
	assert.ErrorIs(t, err, profiledomain.ErrProfileInvalid)

	_, err = svc.UpdateProfile(context.Background(), "u1", profiledomain.Input{FullName: "Jane", NotificationMethods: []string{"pigeon"}})
	assert.ErrorIs(t, err, profiledomain.ErrProfileInvalid)
}
