package seeder

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

// ParticipationGenerator books members into classes and records attendance
// for classes that have ended.
type ParticipationGenerator struct {
	tx        Tx
	rand      *rand.Rand
	spec      ParticipationSpec
	threshold time.Duration
}

func NewParticipationGenerator(tx Tx, r *rand.Rand, spec ParticipationSpec, threshold time.Duration) *ParticipationGenerator {
	return &ParticipationGenerator{tx: tx, rand: r, spec: spec, threshold: threshold}
}

// sample draws k distinct ids uniformly without replacement.
func sample(r *rand.Rand, ids []int64, k int) []int64 {
	if k > len(ids) {
		k = len(ids)
	}
	out := make([]int64, 0, k)
	for _, i := range r.Perm(len(ids))[:k] {
		out = append(out, ids[i])
	}
	return out
}

// includeDemo adds each demo id missing from picks. When the class is
// full a random non-demo pick is evicted to make room; demo ids are never
// evicted, so a demo id is left out only when every seat holds a demo id.
func includeDemo(r *rand.Rand, picks, demo []int64, capacity int) []int64 {
	isDemo := make(map[int64]bool, len(demo))
	for _, id := range demo {
		isDemo[id] = true
	}
	picked := make(map[int64]bool, len(picks))
	for _, id := range picks {
		picked[id] = true
	}

	for _, d := range demo {
		if picked[d] {
			continue
		}
		if len(picks) < capacity {
			picks = append(picks, d)
			picked[d] = true
			continue
		}

		var evictable []int
		for i, id := range picks {
			if !isDemo[id] {
				evictable = append(evictable, i)
			}
		}
		if len(evictable) == 0 {
			continue
		}
		i := evictable[r.Intn(len(evictable))]
		delete(picked, picks[i])
		picks[i] = d
		picked[d] = true
	}
	return picks
}

func attendanceCount(bookings int, rate float64) int {
	if bookings == 0 {
		return 0
	}
	n := int(math.Round(rate * float64(bookings)))
	if n < 1 {
		n = 1
	}
	if n > bookings {
		n = bookings
	}
	return n
}

// Plan draws bookings and attendance for classes at now.
func (p *ParticipationGenerator) Plan(now time.Time, classes []types.Class, memberIDs, demoIDs []int64) ([]types.Booking, []types.Attendance) {
	var bookings []types.Booking
	var attendance []types.Attendance

	for _, c := range classes {
		k := p.spec.MinBookings + p.rand.Intn(p.spec.MaxBookings-p.spec.MinBookings+1)
		if k > c.Capacity {
			k = c.Capacity
		}
		picks := includeDemo(p.rand, sample(p.rand, memberIDs, k), demoIDs, c.Capacity)

		for _, m := range picks {
			bookings = append(bookings, types.Booking{ClassID: c.ID, MemberID: m})
		}

		if c.StateAt(now, p.threshold) != types.StateEnded {
			continue
		}
		for _, m := range sample(p.rand, picks, attendanceCount(len(picks), p.spec.AttendanceRate)) {
			score := p.spec.ScoreMin + p.rand.Intn(p.spec.ScoreMax-p.spec.ScoreMin+1)
			attendance = append(attendance, types.Attendance{ClassID: c.ID, MemberID: m, Score: score})
		}
	}
	return bookings, attendance
}

// Verify checks the cross-entity rules of a plan before anything is
// written. A failure means the generator is broken.
func Verify(now time.Time, threshold time.Duration, classes []types.Class, memberIDs []int64, bookings []types.Booking, attendance []types.Attendance) error {
	byID := make(map[int64]types.Class, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
	}
	members := make(map[int64]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	booked := make(map[types.Booking]bool, len(bookings))
	perClass := make(map[int64]int)
	for _, b := range bookings {
		c, ok := byID[b.ClassID]
		if !ok {
			return fmt.Errorf("%w: booking for unknown class %d", types.ErrInconsistent, b.ClassID)
		}
		if !members[b.MemberID] {
			return fmt.Errorf("%w: booking for non-member %d", types.ErrInconsistent, b.MemberID)
		}
		if booked[b] {
			return fmt.Errorf("%w: duplicate booking %d/%d", types.ErrInconsistent, b.ClassID, b.MemberID)
		}
		booked[b] = true
		perClass[b.ClassID]++
		if perClass[b.ClassID] > c.Capacity {
			return fmt.Errorf("%w: class %d booked beyond capacity %d", types.ErrInconsistent, c.ID, c.Capacity)
		}
	}

	attended := make(map[types.Booking]bool, len(attendance))
	for _, a := range attendance {
		if !booked[a.Booking()] {
			return fmt.Errorf("%w: attendance %d/%d without booking", types.ErrInconsistent, a.ClassID, a.MemberID)
		}
		if attended[a.Booking()] {
			return fmt.Errorf("%w: duplicate attendance %d/%d", types.ErrInconsistent, a.ClassID, a.MemberID)
		}
		attended[a.Booking()] = true
		if byID[a.ClassID].StateAt(now, threshold) != types.StateEnded {
			return fmt.Errorf("%w: attendance for class %d that has not ended", types.ErrInconsistent, a.ClassID)
		}
	}
	return nil
}

func (p *ParticipationGenerator) Generate(ctx context.Context, now time.Time, classes []types.Class, memberIDs, demoIDs []int64) ([]types.Booking, []types.Attendance, error) {
	bookings, attendance := p.Plan(now, classes, memberIDs, demoIDs)
	if err := Verify(now, p.threshold, classes, memberIDs, bookings, attendance); err != nil {
		return nil, nil, err
	}

	for _, b := range bookings {
		if err := p.tx.CreateBooking(ctx, b); err != nil {
			return nil, nil, err
		}
	}
	for _, a := range attendance {
		if err := p.tx.CreateAttendance(ctx, a); err != nil {
			return nil, nil, err
		}
	}
	return bookings, attendance, nil
}
