package employee

import (
	"context"
	"regexp"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestEmployeeService(t *testing.T) (*memory.Store, employee.EmployeeService) {
	t.Helper()
	store := memory.NewStore()
	return store, NewEmployeeService(store.Employees(), store.Overrides(), store.Transactor())
}

func strPtr(s string) *string { return &s }

func TestGenerateAccessKey(t *testing.T) {
	plain, hash, err := generateAccessKey()
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{12}$`), plain)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)))

	other, _, err := generateAccessKey()
	require.NoError(t, err)
	assert.NotEqual(t, plain, other)
}

func TestEmployeeService_Create_AssignsSequentialCodes(t *testing.T) {
	ctx := context.Background()
	store, svc := newTestEmployeeService(t)

	// Setup
	legacy := "EMP007"
	_, err := store.Employees().Create(ctx, employee.Employee{Name: "Legacy", Email: "legacy@example.com", Role: employee.RoleEmployee, EmployeeCode: &legacy, IsActive: true})
	require.NoError(t, err)

	// Act
	first, err := svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Ayesha Khan", Email: "ayesha@example.com", Password: "secret123"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Bilal Ahmed", Email: "bilal@example.com", Password: "secret123"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "EMP008", *first.EmployeeCode)
	assert.Equal(t, "EMP009", *second.EmployeeCode)
	assert.Equal(t, employee.RoleEmployee, first.Role)
	assert.True(t, first.IsActive)
	assert.Len(t, first.AccessKey, accessKeyLength)

	stored, err := store.Employees().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
	require.NotNil(t, stored.AccessKeyHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.AccessKeyHash), []byte(first.AccessKey)))
}

func TestEmployeeService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestEmployeeService(t)

	_, err := svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Ayesha", Email: "ayesha@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Other", Email: "AYESHA@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeService_SettingsOverride(t *testing.T) {
	ctx := context.Background()
	store, svc := newTestEmployeeService(t)

	hours := decimal.NewFromInt(6)
	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		Name:     "Ayesha",
		Email:    "ayesha@example.com",
		Password: "secret123",
		Settings: &policy.OverrideRequest{CheckInTime: strPtr("10:00"), RequiredWorkHours: &hours},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Settings)
	assert.Equal(t, "10:00", *created.Settings.CheckInTime)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Settings)
	assert.True(t, got.Settings.RequiredWorkHours.Equal(hours))

	t.Run("update replaces override", func(t *testing.T) {
		updated, err := svc.Update(ctx, employee.UpdateEmployeeRequest{
			ID:       created.ID,
			Settings: &policy.OverrideRequest{CheckOutTime: strPtr("17:00")},
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Settings)
		assert.Nil(t, updated.Settings.CheckInTime)
		assert.Equal(t, "17:00", *updated.Settings.CheckOutTime)
	})

	t.Run("clear removes override", func(t *testing.T) {
		updated, err := svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, ClearSettings: true})
		require.NoError(t, err)
		assert.Nil(t, updated.Settings)

		override, err := store.Overrides().GetByEmployeeID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, override)
	})
}

func TestEmployeeService_Update_EmailTaken(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestEmployeeService(t)

	first, err := svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Ayesha", Email: "ayesha@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Bilal", Email: "bilal@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, employee.UpdateEmployeeRequest{ID: first.ID, Email: strPtr("bilal@example.com")})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	updated, err := svc.Update(ctx, employee.UpdateEmployeeRequest{ID: first.ID, Name: strPtr("Ayesha Khan"), Designation: strPtr("Engineer")})
	require.NoError(t, err)
	assert.Equal(t, "Ayesha Khan", updated.Name)
	assert.Equal(t, "Engineer", *updated.Designation)
	assert.Equal(t, "ayesha@example.com", updated.Email)
}

func TestEmployeeService_RegenerateAccessKey(t *testing.T) {
	ctx := context.Background()
	store, svc := newTestEmployeeService(t)

	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Ayesha", Email: "ayesha@example.com", Password: "secret123"})
	require.NoError(t, err)

	regenerated, err := svc.RegenerateAccessKey(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.AccessKey, regenerated.AccessKey)

	stored, err := store.Employees().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(*stored.AccessKeyHash), []byte(created.AccessKey)))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.AccessKeyHash), []byte(regenerated.AccessKey)))
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()
	store, svc := newTestEmployeeService(t)

	admin, err := store.Employees().Create(ctx, employee.Employee{Name: "Admin", Email: "admin@example.com", Role: employee.RoleAdmin, IsActive: true})
	require.NoError(t, err)
	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{Name: "Ayesha", Email: "ayesha@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Deactivate(ctx, admin.ID, admin.ID), employee.ErrCannotDeactivateSelf)

	require.NoError(t, svc.Deactivate(ctx, created.ID, admin.ID))
	assert.ErrorIs(t, svc.Deactivate(ctx, created.ID, admin.ID), employee.ErrEmployeeAlreadyInactive)

	inactive := "inactive"
	list, err := svc.List(ctx, employee.EmployeeFilter{Status: &inactive, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list.Employees, 1)
	assert.Equal(t, created.ID, list.Employees[0].ID)

	all, err := svc.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), all.TotalCount, "admins are not listed")
}
