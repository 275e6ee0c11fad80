package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	contactdomain "github.com/micro-ha/nocontact/internal/domain/contact"
	"github.com/micro-ha/nocontact/internal/model"
	"github.com/micro-ha/nocontact/internal/pkg/utils"
)

// Service implements contact.Service use-cases.
type Service struct {
	repo   contactdomain.Repository
	logger *slog.Logger
	now    func() time.Time
}

func New(repo contactdomain.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: utils.NowUTC}
}

func (s *Service) ListContacts(ctx context.Context, userID string) ([]contactdomain.Contact, error) {
	return s.repo.ListContacts(ctx, userID)
}

func (s *Service) GetContact(ctx context.Context, userID, id string) (contactdomain.Contact, error) {
	return s.repo.GetContact(ctx, userID, id)
}

func (s *Service) CreateContact(ctx context.Context, userID string, in contactdomain.Input) (contactdomain.Contact, error) {
	if in.NotificationMethods == nil {
		in.NotificationMethods = []string{model.MethodEmail}
	}
	item, err := buildContact(in)
	if err != nil {
		return contactdomain.Contact{}, fmt.Errorf("%w: %s", contactdomain.ErrContactInvalid, err)
	}
	now := s.now()
	item.ID = uuid.NewString()
	item.UserID = userID
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.repo.InsertContact(ctx, item); err != nil {
		return contactdomain.Contact{}, err
	}
	s.logger.Info("contact created", "contact_id", item.ID, "user_id", userID, "methods", item.NotificationMethods)
	return item, nil
}

func (s *Service) UpdateContact(ctx context.Context, userID, id string, in contactdomain.Input) (contactdomain.Contact, error) {
	current, err := s.repo.GetContact(ctx, userID, id)
	if err != nil {
		return contactdomain.Contact{}, err
	}
	if in.NotificationMethods == nil {
		in.NotificationMethods = current.NotificationMethods
	}
	item, err := buildContact(in)
	if err != nil {
		return contactdomain.Contact{}, fmt.Errorf("%w: %s", contactdomain.ErrContactInvalid, err)
	}
	item.ID = current.ID
	item.UserID = current.UserID
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = s.now()
	if err := s.repo.UpdateContact(ctx, item); err != nil {
		return contactdomain.Contact{}, err
	}
	s.logger.Info("contact updated", "contact_id", id, "user_id", userID)
	return item, nil
}

func (s *Service) DeleteContact(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteContact(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("contact deleted", "contact_id", id, "user_id", userID)
	return nil
}

func buildContact(in contactdomain.Input) (contactdomain.Contact, error) {
	name := strings.TrimSpace(in.ContactName)
	if name == "" {
		return contactdomain.Contact{}, errors.New("Name is required")
	}
	email := optional(in.Email)
	phone := optional(in.PhoneNumber)
	if email == nil && phone == nil {
		return contactdomain.Contact{}, errors.New("Please provide at least email or phone number")
	}
	if email != nil && !strings.Contains(*email, "@") {
		return contactdomain.Contact{}, fmt.Errorf("invalid email %q", *email)
	}
	methods, err := model.NormalizeMethods(in.NotificationMethods)
	if err != nil {
		return contactdomain.Contact{}, err
	}
	if len(methods) == 0 {
		return contactdomain.Contact{}, errors.New("Please select at least one alert method")
	}
	return contactdomain.Contact{
		ContactName:         name,
		Relationship:        optional(in.Relationship),
		Email:               email,
		PhoneNumber:         phone,
		NotificationMethods: methods,
	}, nil
}

func optional(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}
