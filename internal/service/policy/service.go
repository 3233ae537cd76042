package policy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

type PolicyServiceImpl struct {
	policy.SettingsRepository
	policy.OverrideRepository
}

func NewPolicyService(settingsRepository policy.SettingsRepository, overrideRepository policy.OverrideRepository) policy.PolicyService {
	return &PolicyServiceImpl{
		SettingsRepository: settingsRepository,
		OverrideRepository: overrideRepository,
	}
}

// GetSettings implements policy.PolicyService.
func (s *PolicyServiceImpl) GetSettings(ctx context.Context) (policy.SettingsResponse, error) {
	settings, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return policy.SettingsResponse{}, err
	}
	return toSettingsResponse(settings), nil
}

// UpdateSettings implements policy.PolicyService.
func (s *PolicyServiceImpl) UpdateSettings(ctx context.Context, req policy.UpdateSettingsRequest) (policy.SettingsResponse, error) {
	settings := policy.Settings{
		CheckInTime:        req.CheckInTime,
		CheckOutTime:       req.CheckOutTime,
		RequiredWorkHours:  req.RequiredWorkHours,
		GracePeriodMinutes: req.GracePeriodMinutes,
		LateFineBase:       req.LateFineBase,
		LateFinePer30Min:   req.LateFinePer30Min,
		LeaveCost:          req.LeaveCost,
		PaidLeavesPerMonth: req.PaidLeavesPerMonth,
		WarningLeaveCount:  req.WarningLeaveCount,
		DangerLeaveCount:   req.DangerLeaveCount,
		WorkingDays:        req.WorkingDays,
	}

	// Never store a row that would fail to resolve.
	if _, err := policy.Resolve(&settings, nil); err != nil {
		return policy.SettingsResponse{}, err
	}

	if current, err := s.SettingsRepository.Get(ctx); err == nil {
		settings.ID = current.ID
	}

	saved, err := s.SettingsRepository.Upsert(ctx, settings)
	if err != nil {
		return policy.SettingsResponse{}, fmt.Errorf("failed to save settings: %w", err)
	}

	slog.Info("Attendance settings updated",
		"check_in", saved.CheckInTime,
		"check_out", saved.CheckOutTime,
		"grace_minutes", saved.GracePeriodMinutes,
		"working_days", saved.WorkingDays,
	)
	return toSettingsResponse(saved), nil
}

// Organization implements policy.PolicyService.
func (s *PolicyServiceImpl) Organization(ctx context.Context) (policy.Policy, error) {
	settings, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return policy.Policy{}, err
	}
	return policy.Resolve(&settings, nil)
}

// ForEmployee implements policy.PolicyService.
func (s *PolicyServiceImpl) ForEmployee(ctx context.Context, employeeID string) (policy.Policy, error) {
	settings, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return policy.Policy{}, err
	}

	override, err := s.OverrideRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("failed to get employee settings: %w", err)
	}

	p, err := policy.Resolve(&settings, override)
	if err != nil {
		slog.Error("Attendance policy could not be resolved", "employee_id", employeeID, "error", err)
		return policy.Policy{}, err
	}
	return p, nil
}

func toSettingsResponse(s policy.Settings) policy.SettingsResponse {
	return policy.SettingsResponse{
		CheckInTime:        s.CheckInTime,
		CheckOutTime:       s.CheckOutTime,
		RequiredWorkHours:  s.RequiredWorkHours,
		GracePeriodMinutes: s.GracePeriodMinutes,
		LateFineBase:       s.LateFineBase,
		LateFinePer30Min:   s.LateFinePer30Min,
		LeaveCost:          s.LeaveCost,
		PaidLeavesPerMonth: s.PaidLeavesPerMonth,
		WarningLeaveCount:  s.WarningLeaveCount,
		DangerLeaveCount:   s.DangerLeaveCount,
		WorkingDays:        s.WorkingDays,
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}
