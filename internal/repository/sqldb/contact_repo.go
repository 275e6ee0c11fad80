package sqldb

import (
	"context"

	contactdomain "github.com/micro-ha/nocontact/internal/domain/contact"
)

// ContactRepository is the SQL implementation of contact.Repository.
type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) ListContacts(ctx context.Context, userID string) ([]contactdomain.Contact, error) {
	return r.db.storage.ListContacts(ctx, userID)
}

func (r *ContactRepository) GetContact(ctx context.Context, userID, id string) (contactdomain.Contact, error) {
	c, err := r.db.storage.GetContact(ctx, userID, id)
	return c, mapNotFound(err, contactdomain.ErrContactNotFound)
}

func (r *ContactRepository) InsertContact(ctx context.Context, c contactdomain.Contact) error {
	return r.db.storage.InsertContact(ctx, c)
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c contactdomain.Contact) error {
	return mapNotFound(r.db.storage.UpdateContact(ctx, c), contactdomain.ErrContactNotFound)
}

func (r *ContactRepository) DeleteContact(ctx context.Context, userID, id string) error {
	return mapNotFound(r.db.storage.DeleteContact(ctx, userID, id), contactdomain.ErrContactNotFound)
}
