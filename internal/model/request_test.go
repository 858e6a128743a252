package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return now.Add(time.Duration(n) * 24 * time.Hour)
}

func ids(requests []*Request) []string {
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ID)
	}
	return out
}

func TestSortRequestsAt(t *testing.T) {
	t.Run("future, then past, then canceled", func(t *testing.T) {
		requests := []*Request{
			{ID: "future", Appointment: day(2)},
			{ID: "canceled", Appointment: day(1), Canceled: true},
			{ID: "past", Appointment: day(-1)},
		}

		sorted := SortRequestsAt(requests, now)

		assert.Equal(t, []string{"future", "past", "canceled"}, ids(sorted))
	})

	t.Run("each group ascending by appointment", func(t *testing.T) {
		requests := []*Request{
			{ID: "f3", Appointment: day(3)},
			{ID: "c2", Appointment: day(2), Canceled: true},
			{ID: "p1", Appointment: day(-1)},
			{ID: "f1", Appointment: day(1)},
			{ID: "c-5", Appointment: day(-5), Canceled: true},
			{ID: "p5", Appointment: day(-5)},
		}

		sorted := SortRequestsAt(requests, now)

		assert.Equal(t, []string{"f1", "f3", "p5", "p1", "c-5", "c2"}, ids(sorted))
	})

	t.Run("appointment equal to now counts as past", func(t *testing.T) {
		requests := []*Request{
			{ID: "now", Appointment: now},
			{ID: "later", Appointment: day(1)},
		}

		assert.Equal(t, []string{"later", "now"}, ids(SortRequestsAt(requests, now)))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		requests := []*Request{
			{ID: "a", Appointment: day(1)},
			{ID: "b", Appointment: day(1)},
		}

		assert.Equal(t, []string{"a", "b"}, ids(SortRequestsAt(requests, now)))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		requests := []*Request{
			{ID: "canceled", Appointment: day(1), Canceled: true},
			{ID: "future", Appointment: day(2)},
		}

		_ = SortRequestsAt(requests, now)

		assert.Equal(t, []string{"canceled", "future"}, ids(requests))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, SortRequestsAt(nil, now))
	})
}

func TestSortRequestsCanceledAlwaysLast(t *testing.T) {
	requests := []*Request{
		{ID: "1", Appointment: day(-3), Canceled: true},
		{ID: "2", Appointment: day(4)},
		{ID: "3", Appointment: day(-2)},
		{ID: "4", Appointment: day(6), Canceled: true},
		{ID: "5", Appointment: day(1)},
	}

	sorted := SortRequests(requests)
	require.Len(t, sorted, len(requests))

	seenCanceled := false
	for _, r := range sorted {
		if r.Canceled {
			seenCanceled = true
			continue
		}
		assert.False(t, seenCanceled, "active request %s placed after a canceled one", r.ID)
	}
}

func TestHasAppointmentPassedAt(t *testing.T) {
	assert.True(t, HasAppointmentPassedAt(&Request{Appointment: day(-1)}, now))
	assert.True(t, HasAppointmentPassedAt(&Request{Appointment: now}, now))
	assert.False(t, HasAppointmentPassedAt(&Request{Appointment: day(1)}, now))
}

func TestRequestHasService(t *testing.T) {
	r := &Request{ServiceIDs: []string{"s1", "s2"}}

	assert.True(t, r.HasService("s2"))
	assert.False(t, r.HasService("s3"))
}

func TestRequestAccessibleBy(t *testing.T) {
	r := &Request{PatientID: "p1"}

	assert.True(t, r.AccessibleBy(&User{ID: "p1", Role: RolePatient}))
	assert.True(t, r.AccessibleBy(&User{ID: "a1", Role: RoleAdmin}))
	assert.False(t, r.AccessibleBy(&User{ID: "p2", Role: RolePatient}))
	assert.False(t, r.AccessibleBy(nil))
}
