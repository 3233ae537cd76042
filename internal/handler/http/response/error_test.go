package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "date", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"admission", admission.Deny(admission.ReasonHoliday), http.StatusBadRequest, "ADMISSION_DENIED"},
		{"wrapped admission", fmt.Errorf("check in: %w", admission.Deny(admission.ReasonOffDay)), http.StatusBadRequest, "ADMISSION_DENIED"},
		{"reason required", &attendance.ReasonRequiredError{Field: "reason", Kind: "late", Minutes: 20}, http.StatusUnprocessableEntity, "REASON_REQUIRED"},
		{"policy missing", policy.ErrPolicyMissing, http.StatusInternalServerError, "POLICY_NOT_CONFIGURED"},
		{"invalid time", policy.ErrInvalidTimeFormat, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"inactive", auth.ErrAccountInactive, http.StatusForbidden, "FORBIDDEN"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"email exists", employee.ErrEmailExists, http.StatusConflict, "CONFLICT"},
		{"attendance exists", attendance.ErrAttendanceAlreadyExists, http.StatusConflict, "CONFLICT"},
		{"edit window", attendance.ErrEditWindowClosed, http.StatusForbidden, "FORBIDDEN"},
		{"leave processed", leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{"cancel forbidden", leave.ErrCancelForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"holiday exists", calendar.ErrHolidayExists, http.StatusConflict, "CONFLICT"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleError_Details(t *testing.T) {
	t.Run("admission reason and detail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(rec, admission.DenyWithDetail(admission.ReasonHoliday, "Eid"))

		resp := decode(t, rec)
		assert.Equal(t, "HOLIDAY", resp.Error.Details["reason"])
		assert.Equal(t, "Eid", resp.Error.Details["detail"])
	})

	t.Run("reason required minutes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(rec, &attendance.ReasonRequiredError{Field: "reason", Kind: "early", Minutes: 45})

		resp := decode(t, rec)
		assert.Equal(t, "reason", resp.Error.Details["field"])
		assert.Equal(t, "45", resp.Error.Details["minutes"])
	})
}
