package seeder

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

func memberRange(from, to int64) []int64 {
	var ids []int64
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

func TestIncludeDemoEvictsNonDemo(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	const a, b = 1, 2
	picks := memberRange(10, 19)

	got := includeDemo(r, append([]int64(nil), picks...), []int64{a, b}, 10)

	if len(got) != 10 {
		t.Fatalf("Expected 10 bookings after forcing demo members, got %d", len(got))
	}
	if !contains(got, a) || !contains(got, b) {
		t.Errorf("Expected demo members %d and %d in %v", a, b, got)
	}

	kept := 0
	seen := make(map[int64]bool)
	for _, id := range got {
		if seen[id] {
			t.Errorf("Member %d booked twice", id)
		}
		seen[id] = true
		if contains(picks, id) {
			kept++
		}
	}
	if kept != 8 {
		t.Errorf("Expected one eviction per missing demo member (8 kept), got %d kept", kept)
	}
}

func TestIncludeDemo(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	demo := []int64{1, 2}

	tests := []struct {
		name     string
		picks    []int64
		capacity int
		wantLen  int
		wantDemo []int64
	}{
		{"room for both", []int64{5, 6, 7}, 10, 5, demo},
		{"already sampled", []int64{1, 2, 5}, 10, 3, demo},
		{"one sampled, class full", []int64{1, 5, 6}, 3, 3, demo},
		{"capacity one", []int64{5}, 1, 1, []int64{1}},
		{"empty sample", nil, 8, 2, demo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := includeDemo(r, append([]int64(nil), tt.picks...), demo, tt.capacity)
			if len(got) != tt.wantLen {
				t.Errorf("Expected %d bookings, got %d (%v)", tt.wantLen, len(got), got)
			}
			if len(got) > tt.capacity {
				t.Errorf("Capacity %d exceeded: %v", tt.capacity, got)
			}
			for _, d := range tt.wantDemo {
				if !contains(got, d) {
					t.Errorf("Expected demo member %d in %v", d, got)
				}
			}
		})
	}
}

func TestAttendanceCount(t *testing.T) {
	tests := []struct {
		bookings int
		want     int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{5, 4},
		{10, 8},
		{15, 12},
	}
	for _, tt := range tests {
		if got := attendanceCount(tt.bookings, 0.8); got != tt.want {
			t.Errorf("attendanceCount(%d) = %d, want %d", tt.bookings, got, tt.want)
		}
	}
	if got := attendanceCount(4, 0); got != 1 {
		t.Errorf("Expected at least one attendee, got %d", got)
	}
}

func TestPlanParticipation(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	threshold := 10 * time.Minute
	schedule := NewScheduleGenerator(nil, r, DefaultBuckets())
	classes, err := schedule.Plan(testNow, []int64{1}, []int64{1}, []int64{1})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for i := range classes {
		classes[i].ID = int64(i + 1)
	}

	members := memberRange(100, 116)
	demo := members[:2]
	p := NewParticipationGenerator(nil, r, DefaultParticipation(), threshold)

	for run := 0; run < 50; run++ {
		bookings, attendance := p.Plan(testNow, classes, members, demo)
		if err := Verify(testNow, threshold, classes, members, bookings, attendance); err != nil {
			t.Fatalf("Verify failed on run %d: %v", run, err)
		}

		perClass := make(map[int64][]int64)
		for _, b := range bookings {
			perClass[b.ClassID] = append(perClass[b.ClassID], b.MemberID)
		}
		attended := make(map[int64]int)
		for _, a := range attendance {
			attended[a.ClassID]++
			if a.Score < 60 || a.Score > 100 {
				t.Errorf("Expected score in [60, 100], got %d", a.Score)
			}
		}

		for _, c := range classes {
			booked := perClass[c.ID]
			if len(booked) > c.Capacity {
				t.Errorf("Class %d has %d bookings over capacity %d", c.ID, len(booked), c.Capacity)
			}
			for _, d := range demo {
				if !contains(booked, d) {
					t.Errorf("Expected demo member %d in class %d", d, c.ID)
				}
			}

			ended := c.StateAt(testNow, threshold) == types.StateEnded
			if !ended && attended[c.ID] != 0 {
				t.Errorf("Class %d has not ended but has %d attendance records", c.ID, attended[c.ID])
			}
			if ended && attended[c.ID] != attendanceCount(len(booked), 0.8) {
				t.Errorf("Class %d: expected %d attendees, got %d", c.ID, attendanceCount(len(booked), 0.8), attended[c.ID])
			}
		}
	}
}

func TestVerifyRejectsInconsistentPlans(t *testing.T) {
	threshold := 10 * time.Minute
	ended := types.NewClass(testNow.Add(-2*time.Hour), time.Hour, 2)
	ended.ID = 1
	future := types.NewClass(testNow.Add(time.Hour), time.Hour, 2)
	future.ID = 2
	classes := []types.Class{ended, future}
	members := []int64{10, 11, 12}

	tests := []struct {
		name       string
		bookings   []types.Booking
		attendance []types.Attendance
	}{
		{"attendance without booking", nil, []types.Attendance{{ClassID: 1, MemberID: 10, Score: 70}}},
		{"duplicate booking", []types.Booking{{ClassID: 1, MemberID: 10}, {ClassID: 1, MemberID: 10}}, nil},
		{"over capacity", []types.Booking{{ClassID: 1, MemberID: 10}, {ClassID: 1, MemberID: 11}, {ClassID: 1, MemberID: 12}}, nil},
		{"non-member", []types.Booking{{ClassID: 1, MemberID: 99}}, nil},
		{"unknown class", []types.Booking{{ClassID: 7, MemberID: 10}}, nil},
		{"attendance before end", []types.Booking{{ClassID: 2, MemberID: 10}}, []types.Attendance{{ClassID: 2, MemberID: 10, Score: 70}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(testNow, threshold, classes, members, tt.bookings, tt.attendance)
			if !errors.Is(err, types.ErrInconsistent) {
				t.Errorf("Expected ErrInconsistent, got %v", err)
			}
		})
	}

	ok := []types.Booking{{ClassID: 1, MemberID: 10}, {ClassID: 1, MemberID: 11}, {ClassID: 2, MemberID: 12}}
	if err := Verify(testNow, threshold, classes, members, ok, []types.Attendance{{ClassID: 1, MemberID: 11, Score: 90}}); err != nil {
		t.Errorf("Expected a consistent plan to pass, got %v", err)
	}
}
