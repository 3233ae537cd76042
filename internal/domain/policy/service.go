package policy

import "context"

type PolicyService interface {
	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// Organization returns the parsed organization-wide policy.
	Organization(ctx context.Context) (Policy, error)
	// ForEmployee returns the organization policy merged with the employee's override.
	ForEmployee(ctx context.Context, employeeID string) (Policy, error)
}
