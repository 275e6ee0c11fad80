package profile

import (
	"context"
	"errors"

	"github.com/micro-ha/nocontact/internal/model"
)

var (
	// ErrProfileNotFound indicates no users row for the id.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileInvalid means profile payload failed validation.
	ErrProfileInvalid = errors.New("profile invalid")
)

// Profile is the caregiver account settings.
type Profile = model.Profile

// Input is the profile form payload. Email is not editable.
type Input struct {
	FullName            string   `json:"full_name"`
	PhoneNumber         string   `json:"phone_number"`
	NotificationMethods []string `json:"notification_methods"`
}

// Repository defines profile persistence.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	InsertProfile(ctx context.Context, p Profile) error
	UpdateProfile(ctx context.Context, p Profile) error
}

// Service exposes profile use-cases.
type Service interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	UpdateProfile(ctx context.Context, userID string, in Input) (Profile, error)
}
