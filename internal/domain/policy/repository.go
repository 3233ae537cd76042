package policy

import "context"

type SettingsRepository interface {
	// Get returns ErrPolicyMissing when no settings row exists.
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
}

type OverrideRepository interface {
	// GetByEmployeeID returns nil, nil when the employee has no override.
	GetByEmployeeID(ctx context.Context, employeeID string) (*Override, error)
	Upsert(ctx context.Context, override Override) (Override, error)
	Delete(ctx context.Context, employeeID string) error
}
