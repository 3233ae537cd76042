package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const offDayColumns = `o.id, o.employee_id, o.date, o.reason, o.is_paid, o.created_at, u.name`

type offDayRepository struct {
	db *database.DB
}

func NewOffDayRepository(db *database.DB) calendar.OffDayRepository {
	return &offDayRepository{db: db}
}

func scanOffDay(row pgx.Row) (calendar.OffDay, error) {
	var o calendar.OffDay
	err := row.Scan(&o.ID, &o.EmployeeID, &o.Date, &o.Reason, &o.IsPaid, &o.CreatedAt, &o.EmployeeName)
	return o, err
}

// Create implements calendar.OffDayRepository.
func (r *offDayRepository) Create(ctx context.Context, offDay calendar.OffDay) (calendar.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return calendar.OffDay{}, err
	}
	offDay.ID = id

	query := `
		INSERT INTO off_days (id, employee_id, date, reason, is_paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err = q.QueryRow(ctx, query, offDay.ID, offDay.EmployeeID, offDay.Date, offDay.Reason, offDay.IsPaid).
		Scan(&offDay.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "off_days_employee_date_key") {
			return calendar.OffDay{}, calendar.ErrOffDayExists
		}
		return calendar.OffDay{}, fmt.Errorf("failed to create off-day: %w", err)
	}
	return offDay, nil
}

// GetByID implements calendar.OffDayRepository.
func (r *offDayRepository) GetByID(ctx context.Context, id string) (calendar.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + offDayColumns + ` FROM off_days o JOIN users u ON u.id = o.employee_id WHERE o.id = $1`
	o, err := scanOffDay(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.OffDay{}, calendar.ErrOffDayNotFound
		}
		return calendar.OffDay{}, fmt.Errorf("failed to get off-day: %w", err)
	}
	return o, nil
}

// GetByEmployeeAndDate implements calendar.OffDayRepository.
func (r *offDayRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*calendar.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + offDayColumns + `
		FROM off_days o
		JOIN users u ON u.id = o.employee_id
		WHERE o.employee_id = $1 AND o.date = $2
	`
	o, err := scanOffDay(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get off-day by employee and date: %w", err)
	}
	return &o, nil
}

// List implements calendar.OffDayRepository.
func (r *offDayRepository) List(ctx context.Context, filter calendar.OffDayFilter) ([]calendar.OffDay, error) {
	q := GetQuerier(ctx, r.db)

	where := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND o.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND o.date >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND o.date <= $%d", argIdx)
		args = append(args, *filter.To)
	}

	query := `SELECT ` + offDayColumns + `
		FROM off_days o
		JOIN users u ON u.id = o.employee_id
		WHERE ` + where + `
		ORDER BY o.date ASC
	`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query off-days: %w", err)
	}
	defer rows.Close()

	var offDays []calendar.OffDay
	for rows.Next() {
		o, err := scanOffDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan off-day: %w", err)
		}
		offDays = append(offDays, o)
	}
	return offDays, rows.Err()
}

// Delete implements calendar.OffDayRepository.
func (r *offDayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM off_days WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete off-day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrOffDayNotFound
	}
	return nil
}
