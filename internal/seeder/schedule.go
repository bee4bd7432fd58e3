package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

// ScheduleGenerator places classes into the temporal buckets of a
// BucketSpec relative to now.
type ScheduleGenerator struct {
	tx   Tx
	rand *rand.Rand
	spec BucketSpec
}

func NewScheduleGenerator(tx Tx, r *rand.Rand, spec BucketSpec) *ScheduleGenerator {
	return &ScheduleGenerator{tx: tx, rand: r, spec: spec}
}

type slot struct {
	start    time.Time
	duration time.Duration
	bucket   types.Bucket
}

// wallClock is the instant dayOffset days from t at clock time at, in t's
// location. The clock reading holds across DST changes.
func wallClock(t time.Time, dayOffset int, at time.Duration) time.Time {
	hour := int(at / time.Hour)
	minute := int(at % time.Hour / time.Minute)
	return time.Date(t.Year(), t.Month(), t.Day()+dayOffset, hour, minute, 0, 0, t.Location())
}

func (s *ScheduleGenerator) slots(now time.Time) []slot {
	var out []slot

	for _, at := range s.spec.EndedYesterday {
		out = append(out, slot{wallClock(now, -1, at), s.spec.EndedYesterdayDuration, types.BucketEndedYesterday})
	}
	for _, ago := range s.spec.InProgressAgo {
		out = append(out, slot{now.Add(-ago), s.spec.InProgressDuration, types.BucketInProgress})
	}
	for _, in := range s.spec.ImminentIn {
		out = append(out, slot{now.Add(in), s.spec.DefaultDuration, types.BucketImminent})
	}
	for _, in := range s.spec.LaterToday {
		out = append(out, slot{now.Add(in), s.spec.DefaultDuration, types.BucketLaterToday})
	}

	if s.spec.Upcoming > 0 {
		slotCount := int((s.spec.LastSlot-s.spec.FirstSlot)/s.spec.SlotStep) + 1
		for i := 0; i < s.spec.Upcoming; i++ {
			day := 1 + s.rand.Intn(s.spec.UpcomingDays)
			start := wallClock(now, day, s.spec.FirstSlot+time.Duration(s.rand.Intn(slotCount))*s.spec.SlotStep)
			out = append(out, slot{start, pick(s.rand, s.spec.UpcomingDurations), types.BucketUpcoming})
		}
	}
	return out
}

// Plan builds the classes without writing them.
func (s *ScheduleGenerator) Plan(now time.Time, workoutIDs, coachIDs, adminIDs []int64) ([]types.Class, error) {
	switch {
	case len(workoutIDs) == 0:
		return nil, fmt.Errorf("cannot schedule classes without workouts")
	case len(coachIDs) == 0:
		return nil, fmt.Errorf("cannot schedule classes without coaches")
	case len(adminIDs) == 0:
		return nil, fmt.Errorf("cannot schedule classes without admins")
	}

	planned := s.slots(now)
	classes := make([]types.Class, 0, len(planned))
	for _, sl := range planned {
		capacity := s.spec.CapacityMin + s.rand.Intn(s.spec.CapacityMax-s.spec.CapacityMin+1)
		c := types.NewClass(sl.start, sl.duration, capacity)
		c.Bucket = sl.bucket
		c.CoachID = pick(s.rand, coachIDs)
		c.WorkoutID = pick(s.rand, workoutIDs)
		c.CreatedBy = pick(s.rand, adminIDs)
		classes = append(classes, c)
	}
	return classes, nil
}

func (s *ScheduleGenerator) Generate(ctx context.Context, now time.Time, workoutIDs, coachIDs, adminIDs []int64) ([]types.Class, error) {
	classes, err := s.Plan(now, workoutIDs, coachIDs, adminIDs)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if err := s.tx.CreateClass(ctx, &classes[i]); err != nil {
			return nil, err
		}
	}
	return classes, nil
}
