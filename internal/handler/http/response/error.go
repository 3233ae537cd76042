package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Structured rejections carry details the client acts on
	var denied *admission.DeniedError
	if errors.As(err, &denied) {
		details := map[string]string{"reason": string(denied.Reason)}
		if denied.Detail != "" {
			details["detail"] = denied.Detail
		}
		ErrorWithCode(w, http.StatusBadRequest, "ADMISSION_DENIED", denied.Error(), details)
		return
	}
	var reasonRequired *attendance.ReasonRequiredError
	if errors.As(err, &reasonRequired) {
		ErrorWithCode(w, http.StatusUnprocessableEntity, "REASON_REQUIRED", reasonRequired.Error(), map[string]string{
			"field":   reasonRequired.Field,
			"kind":    reasonRequired.Kind,
			"minutes": strconv.Itoa(reasonRequired.Minutes),
		})
		return
	}

	switch {
	// Policy errors
	case errors.Is(err, policy.ErrPolicyMissing):
		ErrorWithCode(w, http.StatusInternalServerError, "POLICY_NOT_CONFIGURED", err.Error(), nil)
	case errors.Is(err, policy.ErrInvalidTimeFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, policy.ErrInvalidPolicy):
		BadRequest(w, err.Error(), nil)

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidAccessKey),
		errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrAdminAccessRequired),
		errors.Is(err, auth.ErrEmployeeAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrIncorrectPassword):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists),
		errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrCannotDeactivateSelf),
		errors.Is(err, employee.ErrNotAnEmployee):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrUnauthorized),
		errors.Is(err, attendance.ErrEditWindowClosed):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn),
		errors.Is(err, attendance.ErrCheckOutWithoutCheckIn):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidDecision):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrCancelForbidden):
		Forbidden(w, err.Error())

	// Calendar domain errors
	case errors.Is(err, calendar.ErrHolidayNotFound),
		errors.Is(err, calendar.ErrOffDayNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, calendar.ErrHolidayExists),
		errors.Is(err, calendar.ErrOffDayExists),
		errors.Is(err, calendar.ErrOffDayHasAttendance):
		Conflict(w, err.Error())
	case errors.Is(err, calendar.ErrInvalidRecurrenceStart):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
