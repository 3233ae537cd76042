package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/teambition/rrule-go"
)

// IsWorkingDay reports whether the ISO weekday of date (Sunday = 7) is in workingDays.
func IsWorkingDay(date time.Time, workingDays []int) bool {
	iso := orgtime.ISOWeekday(date)
	for _, d := range workingDays {
		if d == iso {
			return true
		}
	}
	return false
}

// yearlyRule expands a recurring holiday from its stored date onwards.
// A Feb 29 holiday is only observed in leap years.
func yearlyRule(h calendar.Holiday) (*rrule.RRule, error) {
	if h.Date.IsZero() {
		return nil, calendar.ErrInvalidRecurrenceStart
	}
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.YEARLY,
		Dtstart: h.Date.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calendar.ErrInvalidRecurrenceStart, err)
	}
	return rule, nil
}

// OccursOn reports whether h is observed on the calendar date.
func OccursOn(h calendar.Holiday, date time.Time) (bool, error) {
	if orgtime.SameDate(h.Date, date) {
		return true, nil
	}
	if !h.IsRecurring {
		return false, nil
	}
	rule, err := yearlyRule(h)
	if err != nil {
		return false, err
	}
	d := date.UTC()
	return len(rule.Between(d, d, true)) > 0, nil
}

type gate struct {
	calendar.HolidayRepository
	calendar.OffDayRepository
}

func NewGate(holidayRepository calendar.HolidayRepository, offDayRepository calendar.OffDayRepository) calendar.Gate {
	return &gate{
		HolidayRepository: holidayRepository,
		OffDayRepository:  offDayRepository,
	}
}

// CheckInAllowed implements calendar.Gate.
func (g *gate) CheckInAllowed(ctx context.Context, employeeID string, date time.Time, p policy.Policy) error {
	if !IsWorkingDay(date, p.WorkingDays) {
		return admission.Deny(admission.ReasonNonWorkingDay)
	}

	holiday, err := g.HolidayOn(ctx, date)
	if err != nil {
		return err
	}
	if holiday != nil {
		return admission.DenyWithDetail(admission.ReasonHoliday, holiday.Name)
	}

	offDay, err := g.OffDayRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to look up off-day: %w", err)
	}
	if offDay != nil {
		return admission.DenyWithDetail(admission.ReasonOffDay, offDay.Reason)
	}

	return nil
}

// LeaveAllowed implements calendar.Gate.
func (g *gate) LeaveAllowed(ctx context.Context, date time.Time, p policy.Policy) error {
	if !IsWorkingDay(date, p.WorkingDays) {
		return admission.Deny(admission.ReasonNonWorkingDayLeave)
	}

	holiday, err := g.HolidayOn(ctx, date)
	if err != nil {
		return err
	}
	if holiday != nil {
		return admission.DenyWithDetail(admission.ReasonHolidayLeave, holiday.Name)
	}
	return nil
}

// HolidayOn implements calendar.Gate.
func (g *gate) HolidayOn(ctx context.Context, date time.Time) (*calendar.Holiday, error) {
	exact, err := g.HolidayRepository.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up holiday: %w", err)
	}
	if exact != nil {
		return exact, nil
	}

	recurring, err := g.HolidayRepository.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring holidays: %w", err)
	}
	for i := range recurring {
		ok, err := OccursOn(recurring[i], date)
		if err != nil {
			return nil, err
		}
		if ok {
			return &recurring[i], nil
		}
	}
	return nil, nil
}

// HolidaysBetween implements calendar.Gate.
func (g *gate) HolidaysBetween(ctx context.Context, from, to time.Time) ([]calendar.HolidayOccurrence, error) {
	stored, err := g.HolidayRepository.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	recurring, err := g.HolidayRepository.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring holidays: %w", err)
	}

	seen := make(map[string]bool)
	var occurrences []calendar.HolidayOccurrence
	add := func(h calendar.Holiday, date time.Time) {
		key := h.ID + "|" + orgtime.FormatDate(date)
		if seen[key] {
			return
		}
		seen[key] = true
		occurrences = append(occurrences, calendar.HolidayOccurrence{
			HolidayID:   h.ID,
			Name:        h.Name,
			Date:        orgtime.FormatDate(date),
			IsRecurring: h.IsRecurring,
		})
	}

	for _, h := range stored {
		add(h, h.Date)
	}
	for _, h := range recurring {
		rule, err := yearlyRule(h)
		if err != nil {
			return nil, err
		}
		for _, date := range rule.Between(from.UTC(), to.UTC(), true) {
			add(h, date)
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Date == occurrences[j].Date {
			return occurrences[i].Name < occurrences[j].Name
		}
		return occurrences[i].Date < occurrences[j].Date
	})
	return occurrences, nil
}
