package policy

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettingsRequest() policy.UpdateSettingsRequest {
	return policy.UpdateSettingsRequest{
		CheckInTime:        "09:00",
		CheckOutTime:       "17:00",
		RequiredWorkHours:  decimal.NewFromInt(8),
		GracePeriodMinutes: 15,
		LateFineBase:       250,
		LateFinePer30Min:   250,
		LeaveCost:          1000,
		PaidLeavesPerMonth: 1,
		WarningLeaveCount:  3,
		DangerLeaveCount:   5,
		WorkingDays:        []int{1, 2, 3, 4, 5},
	}
}

func TestPolicyService_Organization_Missing(t *testing.T) {
	store := memory.NewStore()
	svc := NewPolicyService(store.Settings(), store.Overrides())

	_, err := svc.Organization(context.Background())
	assert.ErrorIs(t, err, policy.ErrPolicyMissing)

	_, err = svc.ForEmployee(context.Background(), "emp-1")
	assert.ErrorIs(t, err, policy.ErrPolicyMissing)
}

func TestPolicyService_ForEmployee_MergesOverride(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPolicyService(store.Settings(), store.Overrides())

	// Setup
	_, err := svc.UpdateSettings(ctx, validSettingsRequest())
	require.NoError(t, err)
	late := "10:00"
	_, err = store.Overrides().Upsert(ctx, policy.Override{EmployeeID: "emp-1", CheckInTime: &late})
	require.NoError(t, err)

	// Act
	p, err := svc.ForEmployee(ctx, "emp-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "10:00", p.CheckIn.String())
	assert.Equal(t, "17:00", p.CheckOut.String())
	assert.Equal(t, 15, p.GracePeriodMinutes)

	p, err = svc.ForEmployee(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, "09:00", p.CheckIn.String())
}

func TestPolicyService_UpdateSettings_RejectsInvalid(t *testing.T) {
	store := memory.NewStore()
	svc := NewPolicyService(store.Settings(), store.Overrides())

	req := validSettingsRequest()
	req.CheckInTime = "9am"
	_, err := svc.UpdateSettings(context.Background(), req)
	assert.ErrorIs(t, err, policy.ErrInvalidTimeFormat)

	req = validSettingsRequest()
	req.DangerLeaveCount = 1
	_, err = svc.UpdateSettings(context.Background(), req)
	assert.ErrorIs(t, err, policy.ErrInvalidPolicy)

	_, err = svc.GetSettings(context.Background())
	assert.ErrorIs(t, err, policy.ErrPolicyMissing)
}

func TestPolicyService_UpdateSettings_KeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPolicyService(store.Settings(), store.Overrides())

	_, err := svc.UpdateSettings(ctx, validSettingsRequest())
	require.NoError(t, err)
	first, err := store.Settings().Get(ctx)
	require.NoError(t, err)

	req := validSettingsRequest()
	req.GracePeriodMinutes = 5
	resp, err := svc.UpdateSettings(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.GracePeriodMinutes)

	second, err := store.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
