package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) policy.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements policy.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (policy.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, check_in_time, check_out_time, required_work_hours, grace_period_minutes,
			   late_fine_base, late_fine_per_30_min, leave_cost, paid_leaves_per_month,
			   warning_leave_count, danger_leave_count, working_days, updated_at
		FROM settings
		LIMIT 1
	`

	var s policy.Settings
	var workingDays []int32
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.CheckInTime, &s.CheckOutTime, &s.RequiredWorkHours, &s.GracePeriodMinutes,
		&s.LateFineBase, &s.LateFinePer30Min, &s.LeaveCost, &s.PaidLeavesPerMonth,
		&s.WarningLeaveCount, &s.DangerLeaveCount, &workingDays, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.Settings{}, policy.ErrPolicyMissing
		}
		return policy.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	s.WorkingDays = toInts(workingDays)

	return s, nil
}

// Upsert implements policy.SettingsRepository.
func (r *settingsRepository) Upsert(ctx context.Context, s policy.Settings) (policy.Settings, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		id, err := newID()
		if err != nil {
			return policy.Settings{}, err
		}
		s.ID = id
	}

	query := `
		INSERT INTO settings (
			id, check_in_time, check_out_time, required_work_hours, grace_period_minutes,
			late_fine_base, late_fine_per_30_min, leave_cost, paid_leaves_per_month,
			warning_leave_count, danger_leave_count, working_days, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (singleton) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			required_work_hours = EXCLUDED.required_work_hours,
			grace_period_minutes = EXCLUDED.grace_period_minutes,
			late_fine_base = EXCLUDED.late_fine_base,
			late_fine_per_30_min = EXCLUDED.late_fine_per_30_min,
			leave_cost = EXCLUDED.leave_cost,
			paid_leaves_per_month = EXCLUDED.paid_leaves_per_month,
			warning_leave_count = EXCLUDED.warning_leave_count,
			danger_leave_count = EXCLUDED.danger_leave_count,
			working_days = EXCLUDED.working_days,
			updated_at = NOW()
		RETURNING id, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.CheckInTime, s.CheckOutTime, s.RequiredWorkHours, s.GracePeriodMinutes,
		s.LateFineBase, s.LateFinePer30Min, s.LeaveCost, s.PaidLeavesPerMonth,
		s.WarningLeaveCount, s.DangerLeaveCount, toInt32s(s.WorkingDays),
	).Scan(&s.ID, &s.UpdatedAt)
	if err != nil {
		return policy.Settings{}, fmt.Errorf("failed to upsert settings: %w", err)
	}

	return s, nil
}

type overrideRepository struct {
	db *database.DB
}

func NewOverrideRepository(db *database.DB) policy.OverrideRepository {
	return &overrideRepository{db: db}
}

// GetByEmployeeID implements policy.OverrideRepository.
func (r *overrideRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*policy.Override, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, check_in_time, check_out_time, required_work_hours, updated_at
		FROM employee_settings
		WHERE employee_id = $1
	`

	var o policy.Override
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&o.EmployeeID, &o.CheckInTime, &o.CheckOutTime, &o.RequiredWorkHours, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee settings: %w", err)
	}

	return &o, nil
}

// Upsert implements policy.OverrideRepository.
func (r *overrideRepository) Upsert(ctx context.Context, o policy.Override) (policy.Override, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_settings (employee_id, check_in_time, check_out_time, required_work_hours, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (employee_id) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			required_work_hours = EXCLUDED.required_work_hours,
			updated_at = NOW()
		RETURNING updated_at
	`

	if err := q.QueryRow(ctx, query, o.EmployeeID, o.CheckInTime, o.CheckOutTime, o.RequiredWorkHours).Scan(&o.UpdatedAt); err != nil {
		return policy.Override{}, fmt.Errorf("failed to upsert employee settings: %w", err)
	}

	return o, nil
}

// Delete implements policy.OverrideRepository.
func (r *overrideRepository) Delete(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM employee_settings WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("failed to delete employee settings: %w", err)
	}
	return nil
}

func toInts(values []int32) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}

func toInt32s(values []int) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}
