package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freshDay replays a check-in followed by a check-out the way the service does.
func freshDay(checkIn, checkOut time.Time) attendance.Derived {
	p := testPolicy()
	fine := ComputeLateFine(checkIn, p.CheckIn, p)
	return attendance.Derived{
		LateMinutes:  fine.LateMinutes,
		FineAmount:   fine.FineAmount,
		EarlyMinutes: ComputeEarlyMinutes(checkOut, p.CheckOut),
		TotalHours:   ComputeTotalHours(checkIn, &checkOut),
	}
}

func assertSameDerived(t *testing.T, want, got attendance.Derived) {
	t.Helper()
	assert.Equal(t, want.LateMinutes, got.LateMinutes)
	assert.Equal(t, want.EarlyMinutes, got.EarlyMinutes)
	assert.Equal(t, want.FineAmount, got.FineAmount)
	assert.True(t, want.TotalHours.Equal(got.TotalHours), "total hours %s != %s", want.TotalHours, got.TotalHours)
}

func TestRecompute_MatchesFreshSequence(t *testing.T) {
	p := testPolicy()
	origIn, origOut := pkt(9, 0), pkt(17, 0)
	rec := attendance.Attendance{ID: "a1", CheckInTime: &origIn, CheckOutTime: &origOut}
	rec.Apply(Derive(origIn, &origOut, p))

	cases := []struct {
		name string
		in   time.Time
		out  time.Time
	}{
		{"late and early", pkt(9, 50), pkt(16, 30)},
		{"only check-in moves", pkt(9, 20), origOut},
		{"only check-out moves", origIn, pkt(15, 0)},
		{"unchanged", origIn, origOut},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in, out := c.in, c.out

			edited, err := Recompute(rec, Edit{CheckIn: &in, CheckOut: &out}, p)

			require.NoError(t, err)
			assertSameDerived(t, freshDay(c.in, c.out), edited.Derived())
			assert.True(t, edited.IsModifiedByAdmin)
		})
	}
}

func TestRecompute_OrderIndependent(t *testing.T) {
	p := testPolicy()
	origIn, origOut := pkt(8, 55), pkt(17, 5)
	rec := attendance.Attendance{CheckInTime: &origIn, CheckOutTime: &origOut}
	rec.Apply(Derive(origIn, &origOut, p))
	in, out := pkt(10, 1), pkt(16, 10)

	// check-in first, then check-out
	a, err := Recompute(rec, Edit{CheckIn: &in}, p)
	require.NoError(t, err)
	a, err = Recompute(a, Edit{CheckOut: &out}, p)
	require.NoError(t, err)

	// check-out first, then check-in
	b, err := Recompute(rec, Edit{CheckOut: &out}, p)
	require.NoError(t, err)
	b, err = Recompute(b, Edit{CheckIn: &in}, p)
	require.NoError(t, err)

	assertSameDerived(t, a.Derived(), b.Derived())
	assertSameDerived(t, freshDay(in, out), a.Derived())
}

func TestRecompute_Idempotent(t *testing.T) {
	p := testPolicy()
	origIn := pkt(9, 0)
	rec := attendance.Attendance{CheckInTime: &origIn}
	rec.Apply(Derive(origIn, nil, p))
	in, out := pkt(9, 40), pkt(16, 45)
	edit := Edit{CheckIn: &in, CheckOut: &out}

	once, err := Recompute(rec, edit, p)
	require.NoError(t, err)
	twice, err := Recompute(once, edit, p)
	require.NoError(t, err)

	assertSameDerived(t, once.Derived(), twice.Derived())
}

func TestRecompute_AddsMissingCheckOut(t *testing.T) {
	p := testPolicy()
	in := pkt(9, 30)
	rec := attendance.Attendance{CheckInTime: &in}
	rec.Apply(Derive(in, nil, p))
	out := pkt(17, 30)

	edited, err := Recompute(rec, Edit{CheckOut: &out}, p)

	require.NoError(t, err)
	assert.Equal(t, 0, edited.EarlyMinutes)
	assert.Equal(t, "8", edited.TotalHours.String())
	assert.Equal(t, 30, edited.LateMinutes, "late minutes are kept when check-in is unchanged")
}

func TestRecompute_ReasonOnlyKeepsDerived(t *testing.T) {
	p := testPolicy()
	in, out := pkt(9, 45), pkt(16, 0)
	rec := attendance.Attendance{CheckInTime: &in, CheckOutTime: &out}
	rec.Apply(Derive(in, &out, p))
	reason := "doctor appointment in the morning"

	edited, err := Recompute(rec, Edit{CheckInReason: &reason}, p)

	require.NoError(t, err)
	assertSameDerived(t, rec.Derived(), edited.Derived())
	assert.Equal(t, reason, *edited.CheckInReason)
	assert.True(t, edited.IsModifiedByAdmin)
}

func TestRecompute_RejectsInvertedTimes(t *testing.T) {
	p := testPolicy()
	in, out := pkt(9, 0), pkt(17, 0)
	rec := attendance.Attendance{CheckInTime: &in, CheckOutTime: &out}
	early := pkt(8, 0)

	_, err := Recompute(rec, Edit{CheckOut: &early}, p)
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)

	_, err = Recompute(attendance.Attendance{}, Edit{CheckOut: &out}, p)
	assert.ErrorIs(t, err, attendance.ErrCheckOutWithoutCheckIn)
}
