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

const holidayColumns = `id, name, date, is_recurring, created_at, updated_at`

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepository{db: db}
}

func scanHoliday(row pgx.Row) (calendar.Holiday, error) {
	var h calendar.Holiday
	err := row.Scan(&h.ID, &h.Name, &h.Date, &h.IsRecurring, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (r *holidayRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE `+where+` ORDER BY date ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Create implements calendar.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return calendar.Holiday{}, err
	}
	holiday.ID = id

	query := `
		INSERT INTO holidays (id, name, date, is_recurring)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query, holiday.ID, holiday.Name, holiday.Date, holiday.IsRecurring).
		Scan(&holiday.CreatedAt, &holiday.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return calendar.Holiday{}, calendar.ErrHolidayExists
		}
		return calendar.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday, nil
}

// GetByID implements calendar.HolidayRepository.
func (r *holidayRepository) GetByID(ctx context.Context, id string) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.Holiday{}, calendar.ErrHolidayNotFound
		}
		return calendar.Holiday{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return h, nil
}

// GetByDate implements calendar.HolidayRepository.
func (r *holidayRepository) GetByDate(ctx context.Context, date time.Time) (*calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE date = $1`, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday by date: %w", err)
	}
	return &h, nil
}

// ListRecurring implements calendar.HolidayRepository.
func (r *holidayRepository) ListRecurring(ctx context.Context) ([]calendar.Holiday, error) {
	return r.listWhere(ctx, "is_recurring = TRUE")
}

// ListBetween implements calendar.HolidayRepository.
func (r *holidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	return r.listWhere(ctx, "date BETWEEN $1 AND $2", from, to)
}

// Delete implements calendar.HolidayRepository.
func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}
