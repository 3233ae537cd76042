// Package memory holds map-backed repositories with the same uniqueness rules as
// the Postgres schema. It is for tests only: the transactor does not roll back and
// nothing is persisted, so cmd/api must never wire it.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/google/uuid"
)

// Store is a single in-memory database shared by every repository it hands out.
type Store struct {
	mu sync.Mutex

	settings    *policy.Settings
	overrides   map[string]policy.Override
	employees   map[string]employee.Employee
	attendances map[string]attendance.Attendance
	leaves      map[string]leave.LeaveRequest
	holidays    map[string]calendar.Holiday
	offDays     map[string]calendar.OffDay
}

func NewStore() *Store {
	return &Store{
		overrides:   make(map[string]policy.Override),
		employees:   make(map[string]employee.Employee),
		attendances: make(map[string]attendance.Attendance),
		leaves:      make(map[string]leave.LeaveRequest),
		holidays:    make(map[string]calendar.Holiday),
		offDays:     make(map[string]calendar.OffDay),
	}
}

func (s *Store) Transactor() database.Transactor              { return transactor{} }
func (s *Store) Settings() policy.SettingsRepository          { return settingsRepo{s} }
func (s *Store) Overrides() policy.OverrideRepository         { return overrideRepo{s} }
func (s *Store) Employees() employee.EmployeeRepository       { return employeeRepo{s} }
func (s *Store) Attendances() attendance.AttendanceRepository { return attendanceRepo{s} }
func (s *Store) Leaves() leave.LeaveRequestRepository         { return leaveRepo{s} }
func (s *Store) Holidays() calendar.HolidayRepository         { return holidayRepo{s} }
func (s *Store) OffDays() calendar.OffDayRepository           { return offDayRepo{s} }

type transactor struct{}

func (transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) employeeName(id string) (*string, *string) {
	emp, ok := s.employees[id]
	if !ok {
		return nil, nil
	}
	name := emp.Name
	return &name, emp.EmployeeCode
}

func within(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && date.After(*to) {
		return false
	}
	return true
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ===== POLICY =====

type settingsRepo struct{ s *Store }

func (r settingsRepo) Get(ctx context.Context) (policy.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settings == nil {
		return policy.Settings{}, policy.ErrPolicyMissing
	}
	return *r.s.settings, nil
}

func (r settingsRepo) Upsert(ctx context.Context, settings policy.Settings) (policy.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	settings.UpdatedAt = time.Now()
	r.s.settings = &settings
	return settings, nil
}

type overrideRepo struct{ s *Store }

func (r overrideRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*policy.Override, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.overrides[employeeID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r overrideRepo) Upsert(ctx context.Context, override policy.Override) (policy.Override, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	override.UpdatedAt = time.Now()
	r.s.overrides[override.EmployeeID] = override
	return override, nil
}

func (r overrideRepo) Delete(ctx context.Context, employeeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.overrides, employeeID)
	return nil
}

// ===== EMPLOYEES =====

type employeeRepo struct{ s *Store }

func (r employeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.employees {
		if strings.EqualFold(existing.Email, emp.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		if emp.EmployeeCode != nil && existing.EmployeeCode != nil && *existing.EmployeeCode == *emp.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	emp.ID = uuid.NewString()
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = emp.CreatedAt
	r.s.employees[emp.ID] = emp
	return emp, nil
}

func (r employeeRepo) find(match func(employee.Employee) bool) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, emp := range r.s.employees {
		if match(emp) {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r employeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return e.ID == id })
}

func (r employeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return strings.EqualFold(e.Email, email) })
}

func (r employeeRepo) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool {
		return e.EmployeeCode != nil && strings.EqualFold(*e.EmployeeCode, code)
	})
}

func (r employeeRepo) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	_, err := r.find(func(e employee.Employee) bool {
		return e.ID != excludeID && strings.EqualFold(e.Email, email)
	})
	return err == nil, nil
}

func (r employeeRepo) MaxEmployeeCodeNumber(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	max := 0
	for _, emp := range r.s.employees {
		if emp.EmployeeCode == nil || !strings.HasPrefix(*emp.EmployeeCode, "EMP") {
			continue
		}
		n := 0
		for _, c := range (*emp.EmployeeCode)[3:] {
			if c < '0' || c > '9' {
				n = -1
				break
			}
			n = n*10 + int(c-'0')
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (r employeeRepo) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []employee.Employee
	for _, emp := range r.s.employees {
		if filter.IsActive != nil && emp.IsActive != *filter.IsActive {
			continue
		}
		if filter.Role != nil && emp.Role != *filter.Role {
			continue
		}
		if filter.Search != nil && *filter.Search != "" {
			term := strings.ToLower(*filter.Search)
			code := ""
			if emp.EmployeeCode != nil {
				code = strings.ToLower(*emp.EmployeeCode)
			}
			if !strings.Contains(strings.ToLower(emp.Name), term) &&
				!strings.Contains(strings.ToLower(emp.Email), term) &&
				!strings.Contains(code, term) {
				continue
			}
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r employeeRepo) ListActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	active := true
	role := employee.RoleEmployee
	list, _, err := r.List(ctx, employee.ListFilter{IsActive: &active, Role: &role, Limit: 1 << 20})
	return list, err
}

func (r employeeRepo) Update(ctx context.Context, emp employee.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.employees[emp.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	for _, other := range r.s.employees {
		if other.ID != emp.ID && strings.EqualFold(other.Email, emp.Email) {
			return employee.ErrEmailExists
		}
	}
	emp.EmployeeCode = existing.EmployeeCode
	emp.Role = existing.Role
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = time.Now()
	r.s.employees[emp.ID] = emp
	return nil
}

// ===== ATTENDANCE =====

type attendanceRepo struct{ s *Store }

func (r attendanceRepo) withEmployee(a attendance.Attendance) attendance.Attendance {
	a.EmployeeName, a.EmployeeCode = r.s.employeeName(a.EmployeeID)
	return a
}

func (r attendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.attendances {
		if existing.EmployeeID == a.EmployeeID && orgtime.SameDate(existing.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.attendances[a.ID] = a
	return r.withEmployee(a), nil
}

func (r attendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withEmployee(a), nil
}

func (r attendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attendances {
		if a.EmployeeID == employeeID && orgtime.SameDate(a.Date, date) {
			a = r.withEmployee(a)
			return &a, nil
		}
	}
	return nil, nil
}

func (r attendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.attendances[a.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.EmployeeID = existing.EmployeeID
	a.Date = existing.Date
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now()
	r.s.attendances[a.ID] = a
	return nil
}

func (r attendanceRepo) filter(match func(attendance.Attendance) bool) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		if match(a) {
			out = append(out, r.withEmployee(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r attendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(a attendance.Attendance) bool {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && a.EmployeeID != *filter.EmployeeID {
			return false
		}
		return within(a.Date, filter.From, filter.To)
	})
	if filter.SortOrder != "asc" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r attendanceRepo) ListBetween(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(a attendance.Attendance) bool { return within(a.Date, &from, &to) }), nil
}

func (r attendanceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attendances[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.s.attendances, id)
	return nil
}

// ===== LEAVE =====

type leaveRepo struct{ s *Store }

func (r leaveRepo) withEmployee(l leave.LeaveRequest) leave.LeaveRequest {
	l.EmployeeName, l.EmployeeCode = r.s.employeeName(l.EmployeeID)
	return l
}

func (r leaveRepo) Create(ctx context.Context, l leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.leaves {
		if existing.EmployeeID == l.EmployeeID && orgtime.SameDate(existing.Date, l.Date) && existing.Status != leave.StatusRejected {
			return leave.LeaveRequest{}, admission.Deny(admission.ReasonDuplicateLeave)
		}
	}
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.s.leaves[l.ID] = l
	return r.withEmployee(l), nil
}

func (r leaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.withEmployee(l), nil
}

func (r leaveRepo) GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.leaves {
		if l.EmployeeID == employeeID && orgtime.SameDate(l.Date, date) && l.Status != leave.StatusRejected {
			l = r.withEmployee(l)
			return &l, nil
		}
	}
	return nil, nil
}

// LockForDecision only checks existence; the store mutex already serializes writes.
func (r leaveRepo) LockForDecision(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r leaveRepo) CountApprovedInMonth(ctx context.Context, employeeID string, monthOf time.Time, excludeID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	first, last := orgtime.MonthBounds(monthOf)
	count := 0
	for _, l := range r.s.leaves {
		if l.EmployeeID == employeeID && l.ID != excludeID && l.Status == leave.StatusApproved && within(l.Date, &first, &last) {
			count++
		}
	}
	return count, nil
}

func (r leaveRepo) filter(match func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	var out []leave.LeaveRequest
	for _, l := range r.s.leaves {
		if match(l) {
			out = append(out, r.withEmployee(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r leaveRepo) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(l leave.LeaveRequest) bool {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && l.EmployeeID != *filter.EmployeeID {
			return false
		}
		if filter.Status != nil && l.Status != *filter.Status {
			return false
		}
		return within(l.Date, filter.From, filter.To)
	})
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r leaveRepo) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(l leave.LeaveRequest) bool {
		return l.Status == leave.StatusApproved && within(l.Date, &from, &to)
	}), nil
}

func (r leaveRepo) UpdateDecision(ctx context.Context, l leave.LeaveRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.leaves[l.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if existing.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	existing.Status = l.Status
	existing.IsPaid = l.IsPaid
	existing.ApprovedBy = l.ApprovedBy
	existing.ApprovedAt = l.ApprovedAt
	existing.UpdatedAt = time.Now()
	r.s.leaves[l.ID] = existing
	return nil
}

func (r leaveRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.s.leaves, id)
	return nil
}

// ===== CALENDAR =====

type holidayRepo struct{ s *Store }

func (r holidayRepo) Create(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.holidays {
		if orgtime.SameDate(existing.Date, h.Date) {
			return calendar.Holiday{}, calendar.ErrHolidayExists
		}
	}
	h.ID = uuid.NewString()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	r.s.holidays[h.ID] = h
	return h, nil
}

func (r holidayRepo) GetByID(ctx context.Context, id string) (calendar.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.holidays[id]
	if !ok {
		return calendar.Holiday{}, calendar.ErrHolidayNotFound
	}
	return h, nil
}

func (r holidayRepo) GetByDate(ctx context.Context, date time.Time) (*calendar.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.holidays {
		if orgtime.SameDate(h.Date, date) {
			return &h, nil
		}
	}
	return nil, nil
}

func (r holidayRepo) list(match func(calendar.Holiday) bool) []calendar.Holiday {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []calendar.Holiday
	for _, h := range r.s.holidays {
		if match(h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r holidayRepo) ListRecurring(ctx context.Context) ([]calendar.Holiday, error) {
	return r.list(func(h calendar.Holiday) bool { return h.IsRecurring }), nil
}

func (r holidayRepo) ListBetween(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	return r.list(func(h calendar.Holiday) bool { return within(h.Date, &from, &to) }), nil
}

func (r holidayRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.holidays[id]; !ok {
		return calendar.ErrHolidayNotFound
	}
	delete(r.s.holidays, id)
	return nil
}

type offDayRepo struct{ s *Store }

func (r offDayRepo) Create(ctx context.Context, o calendar.OffDay) (calendar.OffDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.offDays {
		if existing.EmployeeID == o.EmployeeID && orgtime.SameDate(existing.Date, o.Date) {
			return calendar.OffDay{}, calendar.ErrOffDayExists
		}
	}
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now()
	r.s.offDays[o.ID] = o
	return o, nil
}

func (r offDayRepo) GetByID(ctx context.Context, id string) (calendar.OffDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offDays[id]
	if !ok {
		return calendar.OffDay{}, calendar.ErrOffDayNotFound
	}
	o.EmployeeName, _ = r.s.employeeName(o.EmployeeID)
	return o, nil
}

func (r offDayRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*calendar.OffDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.offDays {
		if o.EmployeeID == employeeID && orgtime.SameDate(o.Date, date) {
			return &o, nil
		}
	}
	return nil, nil
}

func (r offDayRepo) List(ctx context.Context, filter calendar.OffDayFilter) ([]calendar.OffDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []calendar.OffDay
	for _, o := range r.s.offDays {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && o.EmployeeID != *filter.EmployeeID {
			continue
		}
		if !within(o.Date, filter.From, filter.To) {
			continue
		}
		o.EmployeeName, _ = r.s.employeeName(o.EmployeeID)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r offDayRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.offDays[id]; !ok {
		return calendar.ErrOffDayNotFound
	}
	delete(r.s.offDays, id)
	return nil
}
