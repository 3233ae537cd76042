package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
	CreateOffDay(w http.ResponseWriter, r *http.Request)
	ListOffDays(w http.ResponseWriter, r *http.Request)
	DeleteOffDay(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
	clock           orgtime.Clock
}

func NewCalendarHandler(calendarService calendar.CalendarService, clock orgtime.Clock) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
		clock:           clock,
	}
}

// CreateHoliday implements CalendarHandler.
func (h *calendarHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req calendar.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.calendarService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", result)
}

// ListHolidays implements CalendarHandler. The year defaults to the current one.
func (h *calendarHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if year == nil {
		current := orgtime.TodayInOrgTZ(h.clock).Year()
		year = &current
	}

	results, err := h.calendarService.ListHolidays(r.Context(), *year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// DeleteHoliday implements CalendarHandler.
func (h *calendarHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.calendarService.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}

// CreateOffDay implements CalendarHandler.
func (h *calendarHandlerImpl) CreateOffDay(w http.ResponseWriter, r *http.Request) {
	var req calendar.CreateOffDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.calendarService.CreateOffDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Off-day created successfully", result)
}

// ListOffDays implements CalendarHandler.
func (h *calendarHandlerImpl) ListOffDays(w http.ResponseWriter, r *http.Request) {
	req := calendar.ListOffDaysRequest{
		EmployeeID: queryString(r, "employee_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.calendarService.ListOffDays(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// DeleteOffDay implements CalendarHandler.
func (h *calendarHandlerImpl) DeleteOffDay(w http.ResponseWriter, r *http.Request) {
	if err := h.calendarService.DeleteOffDay(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Off-day deleted successfully", nil)
}
