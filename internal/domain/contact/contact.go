package contact

import (
	"context"
	"errors"

	"github.com/micro-ha/nocontact/internal/model"
)

var (
	// ErrContactNotFound indicates missing contact for the calling user.
	ErrContactNotFound = errors.New("contact not found")
	// ErrContactInvalid means contact form payload failed validation.
	ErrContactInvalid = errors.New("contact invalid")
)

// Contact is an emergency contact alerted on prolonged inactivity.
type Contact = model.Contact

// Input is the contact form payload. A nil NotificationMethods on create
// falls back to email.
type Input struct {
	ContactName         string   `json:"contact_name"`
	Relationship        string   `json:"relationship"`
	Email               string   `json:"email"`
	PhoneNumber         string   `json:"phone_number"`
	NotificationMethods []string `json:"notification_methods"`
}

// Repository defines contact persistence.
type Repository interface {
	ListContacts(ctx context.Context, userID string) ([]Contact, error)
	GetContact(ctx context.Context, userID, id string) (Contact, error)
	InsertContact(ctx context.Context, c Contact) error
	UpdateContact(ctx context.Context, c Contact) error
	DeleteContact(ctx context.Context, userID, id string) error
}

// Service exposes contact use-cases.
type Service interface {
	ListContacts(ctx context.Context, userID string) ([]Contact, error)
	GetContact(ctx context.Context, userID, id string) (Contact, error)
	CreateContact(ctx context.Context, userID string, in Input) (Contact, error)
	UpdateContact(ctx context.Context, userID, id string, in Input) (Contact, error)
	DeleteContact(ctx context.Context, userID, id string) error
}
