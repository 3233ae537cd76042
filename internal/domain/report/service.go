package report

import "context"

type ReportService interface {
	// AttendanceReport aggregates attendance and approved leaves per employee over a
	// date range.
	AttendanceReport(ctx context.Context, req AttendanceReportRequest) (AttendanceReport, error)
}
