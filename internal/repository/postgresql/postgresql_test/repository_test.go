package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	calendarsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/calendar"
	leavesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	policysvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== EMPLOYEE REPOSITORY TESTS =====

func TestEmployeeRepository_Create_Duplicates(t *testing.T) {
	ctx := setupTestData(t)
	createTestEmployee(t, ctx, "EMP001", "dup@example.com")
	repo := postgresql.NewEmployeeRepository(testDB)

	code := "EMP002"
	_, err := repo.Create(ctx, employee.Employee{
		Name: "Other", Email: "dup@example.com", PasswordHash: "x",
		Role: employee.RoleEmployee, EmployeeCode: &code, IsActive: true,
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	code = "EMP001"
	_, err = repo.Create(ctx, employee.Employee{
		Name: "Other", Email: "other@example.com", PasswordHash: "x",
		Role: employee.RoleEmployee, EmployeeCode: &code, IsActive: true,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	exists, err := repo.EmailExists(ctx, "DUP@example.com", "")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEmployeeRepository_MaxEmployeeCodeNumber(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewEmployeeRepository(testDB)

	max, err := repo.MaxEmployeeCodeNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	createTestEmployee(t, ctx, "EMP001", "a@example.com")
	createTestEmployee(t, ctx, "EMP012", "b@example.com")

	max, err = repo.MaxEmployeeCodeNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, max)

	found, err := repo.GetByEmployeeCode(ctx, "emp012")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", found.Email)
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_Create_OnePerDay(t *testing.T) {
	ctx := setupTestData(t)
	emp := createTestEmployee(t, ctx, "EMP001", "a@example.com")
	repo := postgresql.NewAttendanceRepository(testDB)

	date := orgtime.Date(2024, time.March, 11)
	checkIn := orgtime.MustParseClock("09:20").On(date)
	rec := attendance.Attendance{
		EmployeeID:  emp.ID,
		Date:        date,
		CheckInTime: &checkIn,
		LateMinutes: 20,
		TotalHours:  decimal.Zero,
		FineAmount:  250,
	}

	created, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, rec)
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyExists)

	found, err := repo.GetByEmployeeAndDate(ctx, emp.ID, date)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, checkIn.Equal(*found.CheckInTime))
	assert.Equal(t, date, found.Date.UTC())
	assert.Equal(t, int64(250), found.FineAmount)

	missing, err := repo.GetByEmployeeAndDate(ctx, emp.ID, date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_Update_And_List(t *testing.T) {
	ctx := setupTestData(t)
	emp := createTestEmployee(t, ctx, "EMP001", "a@example.com")
	repo := postgresql.NewAttendanceRepository(testDB)

	date := orgtime.Date(2024, time.March, 11)
	checkIn := orgtime.MustParseClock("09:00").On(date)
	created, err := repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: date, CheckInTime: &checkIn})
	require.NoError(t, err)

	checkOut := orgtime.MustParseClock("17:00").On(date)
	created.CheckOutTime = &checkOut
	created.TotalHours = decimal.NewFromInt(8)
	require.NoError(t, repo.Update(ctx, created))

	list, total, err := repo.List(ctx, attendance.ListFilter{EmployeeID: &emp.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.True(t, list[0].TotalHours.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "EMP001", *list[0].EmployeeCode)
}

// ===== LEAVE REQUEST REPOSITORY TESTS =====

func TestLeaveRequestRepository_ActiveUniqueness(t *testing.T) {
	ctx := setupTestData(t)
	emp := createTestEmployee(t, ctx, "EMP001", "a@example.com")
	admin := createTestEmployee(t, ctx, "EMP002", "b@example.com")
	repo := postgresql.NewLeaveRequestRepository(testDB)

	date := orgtime.Date(2024, time.March, 12)
	req := leave.LeaveRequest{EmployeeID: emp.ID, Date: date, Reason: "family wedding", LeaveType: leave.TypeUnpaid, Status: leave.StatusPending}

	first, err := repo.Create(ctx, req)
	require.NoError(t, err)

	_, err = repo.Create(ctx, req)
	assert.ErrorIs(t, err, admission.ErrAdmissionDenied)

	rejected, err := first.Decide(leave.StatusRejected, admin.ID, time.Now(), false)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateDecision(ctx, rejected))

	// a rejected request frees the date
	second, err := repo.Create(ctx, req)
	require.NoError(t, err)

	approved, err := second.Decide(leave.StatusApproved, admin.ID, time.Now(), false)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateDecision(ctx, approved))

	count, err := repo.CountApprovedInMonth(ctx, emp.ID, date, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountApprovedInMonth(ctx, emp.ID, date, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = repo.UpdateDecision(ctx, approved)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

// ===== CALENDAR REPOSITORY TESTS =====

func TestHolidayRepository_CreateAndList(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewHolidayRepository(testDB)

	_, err := repo.Create(ctx, calendar.Holiday{Name: "Independence Day", Date: orgtime.Date(2023, time.August, 14), IsRecurring: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, calendar.Holiday{Name: "Election", Date: orgtime.Date(2024, time.February, 8)})
	require.NoError(t, err)

	_, err = repo.Create(ctx, calendar.Holiday{Name: "Dup", Date: orgtime.Date(2024, time.February, 8)})
	assert.ErrorIs(t, err, calendar.ErrHolidayExists)

	recurring, err := repo.ListRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, recurring, 1)

	inRange, err := repo.ListBetween(ctx, orgtime.Date(2024, time.January, 1), orgtime.Date(2024, time.December, 31))
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "Election", inRange[0].Name)
}

func TestOffDayRepository_Unique(t *testing.T) {
	ctx := setupTestData(t)
	emp := createTestEmployee(t, ctx, "EMP001", "a@example.com")
	repo := postgresql.NewOffDayRepository(testDB)

	od := calendar.OffDay{EmployeeID: emp.ID, Date: orgtime.Date(2024, time.March, 13), Reason: "compensatory"}
	_, err := repo.Create(ctx, od)
	require.NoError(t, err)

	_, err = repo.Create(ctx, od)
	assert.ErrorIs(t, err, calendar.ErrOffDayExists)

	found, err := repo.GetByEmployeeAndDate(ctx, emp.ID, od.Date)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "compensatory", found.Reason)
}

func TestLeaveRequestRepository_LockForDecision_NotFound(t *testing.T) {
	ctx := setupTestData(t)

	err := postgresql.NewLeaveRequestRepository(testDB).LockForDecision(ctx, "0190a4b2-0000-7000-8000-00000000ffff")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

// The seeded policy allows one paid leave per month.
func TestLeaveService_ConcurrentApprovals_OnePaid(t *testing.T) {
	ctx := setupTestData(t)
	emp := createTestEmployee(t, ctx, "EMP001", "a@example.com")
	repo := postgresql.NewLeaveRequestRepository(testDB)

	var ids []string
	for _, day := range []int{12, 13} {
		lr, err := repo.Create(ctx, leave.LeaveRequest{
			EmployeeID: emp.ID,
			Date:       orgtime.Date(2024, time.March, day),
			Reason:     "family wedding",
			LeaveType:  leave.TypePaid,
			Status:     leave.StatusPending,
		})
		require.NoError(t, err)
		ids = append(ids, lr.ID)
	}

	svc := leavesvc.NewLeaveService(
		repo,
		policysvc.NewPolicyService(postgresql.NewSettingsRepository(testDB), postgresql.NewOverrideRepository(testDB)),
		calendarsvc.NewGate(postgresql.NewHolidayRepository(testDB), postgresql.NewOffDayRepository(testDB)),
		postgresql.NewTransactor(testDB),
		orgtime.FixedClock(time.Date(2024, time.March, 11, 10, 0, 0, 0, orgtime.Location)),
	)

	var wg sync.WaitGroup
	results := make([]leave.LeaveResponse, len(ids))
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i], errs[i] = svc.Decide(ctx, leave.DecideLeaveRequest{ID: id, ApproverID: emp.ID, Status: leave.StatusApproved})
		}(i, id)
	}
	wg.Wait()

	paid := 0
	for i := range ids {
		require.NoError(t, errs[i])
		if results[i].IsPaid {
			paid++
		}
	}
	assert.Equal(t, 1, paid)
}

// ===== SETTINGS REPOSITORY TESTS =====

func TestSettingsRepository_GetSeeded(t *testing.T) {
	ctx := setupTestData(t)

	s, err := postgresql.NewSettingsRepository(testDB).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "09:00", s.CheckInTime)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s.WorkingDays)

	p, err := policy.Resolve(&s, nil)
	require.NoError(t, err)
	assert.True(t, p.HasWorkingDay(1))
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := setupTestData(t)
	emp := createTestEmployee(t, ctx, "EMP001", "a@example.com")
	repo := postgresql.NewAttendanceRepository(testDB)
	date := orgtime.Date(2024, time.March, 11)

	err := postgresql.NewTransactor(testDB).WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: date}); err != nil {
			return err
		}
		return attendance.ErrUnauthorized
	})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	found, err := repo.GetByEmployeeAndDate(ctx, emp.ID, date)
	require.NoError(t, err)
	assert.Nil(t, found)
}
