package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	attendancesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	calendarsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/calendar"
	leavesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	employees   employee.EmployeeRepository
	attendances attendance.AttendanceRepository
	leaves      leave.LeaveRequestRepository
	policies    policy.PolicyService
	gate        calendar.Gate
	clock       orgtime.Clock
}

func NewReportService(
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	leaveRepository leave.LeaveRequestRepository,
	policyService policy.PolicyService,
	gate calendar.Gate,
	clock orgtime.Clock,
) report.ReportService {
	return &ReportServiceImpl{
		employees:   employeeRepository,
		attendances: attendanceRepository,
		leaves:      leaveRepository,
		policies:    policyService,
		gate:        gate,
		clock:       clock,
	}
}

// AttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, req report.AttendanceReportRequest) (report.AttendanceReport, error) {
	start, err := orgtime.ParseDate(req.StartDate)
	if err != nil {
		return report.AttendanceReport{}, err
	}
	end, err := orgtime.ParseDate(req.EndDate)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	employees, err := s.employees.ListActiveEmployees(ctx)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	holidays, err := s.holidayDates(ctx, start, end)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	records, err := s.attendances.ListBetween(ctx, start, end)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}
	recordsByEmployee := make(map[string][]attendance.Attendance)
	for _, rec := range records {
		recordsByEmployee[rec.EmployeeID] = append(recordsByEmployee[rec.EmployeeID], rec)
	}

	approved, err := s.leaves.ListApprovedBetween(ctx, start, end)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to get leave data: %w", err)
	}
	leavesByEmployee := make(map[string]int)
	for _, l := range approved {
		leavesByEmployee[l.EmployeeID]++
	}

	monthStart, monthEnd := orgtime.MonthBounds(end)
	monthApproved, err := s.leaves.ListApprovedBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to get leave data: %w", err)
	}
	monthLeaves := make(map[string]int)
	for _, l := range monthApproved {
		monthLeaves[l.EmployeeID]++
	}

	result := report.AttendanceReport{
		PeriodStart: orgtime.FormatDate(start),
		PeriodEnd:   orgtime.FormatDate(end),
		GeneratedAt: orgtime.NowInOrgTZ(s.clock).Format(time.RFC3339),
		Employees:   make([]report.EmployeeReport, 0, len(employees)),
	}

	var (
		totalHours  = decimal.Zero
		presentDays int
	)
	for _, emp := range employees {
		p, err := s.policies.ForEmployee(ctx, emp.ID)
		if err != nil {
			return report.AttendanceReport{}, err
		}

		row := buildEmployeeReport(emp, p, recordsByEmployee[emp.ID], workingDays(start, end, p, holidays), leavesByEmployee[emp.ID])
		row.LeaveZone = leavesvc.ComputeLeaveZone(monthLeaves[emp.ID], p)
		row.LeaveCost = leavesvc.ComputeLeaveCost(monthLeaves[emp.ID], p)

		result.Overview.TotalAttendance += row.PresentDays
		result.Overview.TotalLeaves += row.LeaveCount
		result.Overview.TotalFines += row.TotalFines
		totalHours = totalHours.Add(row.TotalHours)
		presentDays += row.PresentDays

		result.Employees = append(result.Employees, row)
	}
	result.Overview.TotalEmployees = len(employees)
	result.Overview.AverageHours = average(totalHours, presentDays)

	if err := s.fillToday(ctx, &result.Overview, employees); err != nil {
		return report.AttendanceReport{}, err
	}

	return result, nil
}

// holidayDates returns the set of observed holiday dates in [start, end] keyed by
// YYYY-MM-DD.
func (s *ReportServiceImpl) holidayDates(ctx context.Context, start, end time.Time) (map[string]bool, error) {
	occurrences, err := s.gate.HolidaysBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}
	dates := make(map[string]bool, len(occurrences))
	for _, o := range occurrences {
		dates[o.Date] = true
	}
	return dates, nil
}

// fillToday counts today's check-ins against the active employees. Nobody is
// absent on a non-working day or a holiday.
func (s *ReportServiceImpl) fillToday(ctx context.Context, overview *report.Overview, employees []employee.Employee) error {
	today := orgtime.TodayInOrgTZ(s.clock)

	active := make(map[string]bool, len(employees))
	for _, emp := range employees {
		active[emp.ID] = true
	}

	records, err := s.attendances.ListBetween(ctx, today, today)
	if err != nil {
		return fmt.Errorf("failed to get attendance data: %w", err)
	}
	for _, rec := range records {
		if !active[rec.EmployeeID] || rec.CheckInTime == nil {
			continue
		}
		overview.PresentToday++
		if rec.LateMinutes > 0 {
			overview.LateToday++
		}
	}

	org, err := s.policies.Organization(ctx)
	if err != nil {
		return err
	}
	if !calendarsvc.IsWorkingDay(today, org.WorkingDays) {
		return nil
	}
	holiday, err := s.gate.HolidayOn(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to get holidays: %w", err)
	}
	if holiday != nil {
		return nil
	}

	onLeave, err := s.leaves.ListApprovedBetween(ctx, today, today)
	if err != nil {
		return fmt.Errorf("failed to get leave data: %w", err)
	}
	leaveCount := 0
	for _, l := range onLeave {
		if active[l.EmployeeID] {
			leaveCount++
		}
	}
	overview.AbsentToday = max(0, len(employees)-overview.PresentToday-leaveCount)
	return nil
}

func buildEmployeeReport(emp employee.Employee, p policy.Policy, records []attendance.Attendance, working, leaveCount int) report.EmployeeReport {
	row := report.EmployeeReport{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		EmployeeCode: emp.EmployeeCode,
		WorkingDays:  working,
		LeaveCount:   leaveCount,
		TotalHours:   decimal.Zero,
	}

	for _, rec := range records {
		if rec.CheckInTime == nil {
			continue
		}
		row.PresentDays++
		if rec.LateMinutes > 0 {
			row.LateDays++
		}
		if rec.EarlyMinutes > 0 {
			row.EarlyDays++
		}
		if rec.CheckOutTime != nil {
			if incomplete, _ := attendancesvc.IsWorkHoursIncomplete(rec.TotalHours, p.RequiredWorkHours); incomplete {
				row.IncompleteDays++
			}
		}
		row.TotalFines += rec.FineAmount
		row.TotalHours = row.TotalHours.Add(rec.TotalHours)
	}

	row.AbsentDays = max(0, working-row.PresentDays-leaveCount)
	row.AverageHours = average(row.TotalHours, row.PresentDays)
	return row
}

// workingDays counts the policy working days in [start, end] that are not holidays.
func workingDays(start, end time.Time, p policy.Policy, holidays map[string]bool) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if calendarsvc.IsWorkingDay(d, p.WorkingDays) && !holidays[orgtime.FormatDate(d)] {
			count++
		}
	}
	return count
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}
