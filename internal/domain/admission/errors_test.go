package admission

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeniedError_Matching(t *testing.T) {
	err := fmt.Errorf("check-in: %w", DenyWithDetail(ReasonHoliday, "Independence Day"))

	assert.ErrorIs(t, err, ErrAdmissionDenied)
	assert.ErrorIs(t, err, Deny(ReasonHoliday))
	assert.False(t, errors.Is(err, Deny(ReasonOffDay)))
	assert.Equal(t, "today is a holiday (Independence Day)", errors.Unwrap(err).Error())

	reason, ok := ReasonOf(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonHoliday, reason)
}

func TestReasonOf_OtherError(t *testing.T) {
	_, ok := ReasonOf(errors.New("boom"))
	assert.False(t, ok)
}
