package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.date, lr.reason, lr.leave_type, lr.status, lr.is_paid,
	lr.approved_by, lr.approved_at, lr.created_at, lr.updated_at, u.name, u.employee_code`

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.Date, &lr.Reason, &lr.LeaveType, &lr.Status, &lr.IsPaid,
		&lr.ApprovedBy, &lr.ApprovedAt, &lr.CreatedAt, &lr.UpdatedAt, &lr.EmployeeName, &lr.EmployeeCode,
	)
	return lr, err
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	request.ID = id

	query := `
		INSERT INTO leave_requests (id, employee_id, date, reason, leave_type, status, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.Date,
		request.Reason,
		request.LeaveType,
		request.Status,
		request.IsPaid,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "leave_requests_active_employee_date_key") {
			return leave.LeaveRequest{}, admission.Deny(admission.ReasonDuplicateLeave)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN users u ON u.id = lr.employee_id
		WHERE lr.id = $1
	`
	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// GetActiveByEmployeeAndDate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN users u ON u.id = lr.employee_id
		WHERE lr.employee_id = $1 AND lr.date = $2 AND lr.status <> 'REJECTED'
		LIMIT 1
	`
	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active leave request: %w", err)
	}
	return &lr, nil
}

// LockForDecision implements leave.LeaveRequestRepository. Outside a transaction
// the lock is released as soon as the statement finishes.
func (r *leaveRequestRepository) LockForDecision(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id FROM leave_requests lr
		JOIN users u ON u.id = lr.employee_id
		WHERE lr.id::text = $1
		FOR UPDATE OF lr, u
	`
	var locked string
	if err := q.QueryRow(ctx, query, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveRequestNotFound
		}
		return fmt.Errorf("failed to lock leave request: %w", err)
	}
	return nil
}

// CountApprovedInMonth implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) CountApprovedInMonth(ctx context.Context, employeeID string, monthOf time.Time, excludeID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	first, last := orgtime.MonthBounds(monthOf)
	query := `
		SELECT COUNT(*) FROM leave_requests
		WHERE employee_id = $1
			AND status = 'APPROVED'
			AND date BETWEEN $2 AND $3
			AND id::text <> $4
	`
	var count int
	if err := q.QueryRow(ctx, query, employeeID, first, last, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved leaves: %w", err)
	}
	return count, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	where := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND lr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND lr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND lr.date >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND lr.date <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests lr WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN users u ON u.id = lr.employee_id
		WHERE %s
		ORDER BY lr.date DESC, lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveRequestColumns, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	requests, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListApprovedBetween implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN users u ON u.id = lr.employee_id
		WHERE lr.status = 'APPROVED' AND lr.date BETWEEN $1 AND $2
		ORDER BY lr.date ASC
	`
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// UpdateDecision implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdateDecision(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status = $2,
			is_paid = $3,
			approved_by = $4,
			approved_at = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`
	tag, err := q.Exec(ctx, query, request.ID, request.Status, request.IsPaid, request.ApprovedBy, request.ApprovedAt)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return nil
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
