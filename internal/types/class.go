package types

import "time"

// State is the lifecycle of a class relative to a point in time. It is
// derived, never stored.
type State string

const (
	StateEnded      State = "ended"
	StateInProgress State = "in_progress"
	StateImminent   State = "imminent"
	StateFuture     State = "future"
)

var States = []State{StateEnded, StateInProgress, StateImminent, StateFuture}

// Bucket names the slot of the schedule a class was generated for.
type Bucket string

const (
	BucketEndedYesterday Bucket = "ended_yesterday"
	BucketInProgress     Bucket = "in_progress"
	BucketImminent       Bucket = "imminent"
	BucketLaterToday     Bucket = "later_today"
	BucketUpcoming       Bucket = "upcoming"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

type Class struct {
	ID        int64
	Capacity  int
	Start     time.Time
	Duration  time.Duration
	End       time.Time
	CoachID   int64
	WorkoutID int64
	CreatedBy int64
	Bucket    Bucket
}

// NewClass truncates start to the minute, as stored in scheduled_time, and
// fixes End from that value. Lifecycle checks must read End, not recompute it.
func NewClass(start time.Time, duration time.Duration, capacity int) Class {
	start = start.Truncate(time.Minute)
	return Class{
		Capacity: capacity,
		Start:    start,
		Duration: duration,
		End:      start.Add(duration),
	}
}

// StateAt classifies the class at now. in_progress is inclusive at both
// ends, imminent is the half-open window (0, threshold] before the start.
func (c Class) StateAt(now time.Time, threshold time.Duration) State {
	switch {
	case c.End.Before(now):
		return StateEnded
	case !now.Before(c.Start):
		return StateInProgress
	case c.Start.Sub(now) <= threshold:
		return StateImminent
	default:
		return StateFuture
	}
}

func (c Class) ScheduledDate() string {
	return c.Start.Format(dateLayout)
}

func (c Class) ScheduledTime() string {
	return c.Start.Format(timeLayout)
}

func (c Class) DurationMinutes() int {
	return int(c.Duration / time.Minute)
}

// CountStates tallies classes per lifecycle state. The counts always sum to
// len(classes).
func CountStates(classes []Class, now time.Time, threshold time.Duration) map[State]int {
	counts := make(map[State]int, len(States))
	for _, s := range States {
		counts[s] = 0
	}
	for _, c := range classes {
		counts[c.StateAt(now, threshold)]++
	}
	return counts
}
