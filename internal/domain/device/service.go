package device

import "context"

// Service exposes device use-cases used by HTTP, ingesters and the sweeper.
type Service interface {
	ListDevices(ctx context.Context, userID string, filter ListFilter) ([]View, error)
	ListAllDevices(ctx context.Context) ([]View, error)
	GetDevice(ctx context.Context, userID, id string) (View, error)
	CreateDevice(ctx context.Context, userID string, in Input) (View, error)
	UpdateDevice(ctx context.Context, userID, id string, in Input) (View, error)
	DeleteDevice(ctx context.Context, userID, id string) error

	RecordActivity(ctx context.Context, in ActivityInput) (ActivityResult, error)
	ListActivity(ctx context.Context, userID, id string, limit int) ([]ActivityEvent, error)
}
