package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

// Tx is the transactional store the stages write through.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Truncate(ctx context.Context, tables []string) error

	CreateUser(ctx context.Context, u *types.User, policy types.ConflictPolicy) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (types.User, error)
	AssignRole(ctx context.Context, userID int64, role types.Role, policy types.ConflictPolicy) (bool, error)
	CreateProfile(ctx context.Context, p types.Profile, policy types.ConflictPolicy) (bool, error)

	CreateWorkout(ctx context.Context, w *types.Workout, policy types.ConflictPolicy) (bool, error)
	FindWorkoutByName(ctx context.Context, name string) (types.Workout, error)
	CreateExercise(ctx context.Context, e types.Exercise) (bool, error)

	CreateClass(ctx context.Context, c *types.Class) error
	CreateBooking(ctx context.Context, b types.Booking) error
	CreateAttendance(ctx context.Context, a types.Attendance) error
}

// BeginFunc opens the transaction a run writes into.
type BeginFunc func(ctx context.Context) (Tx, error)

type Mode string

const (
	// ModeFullReset purges generated data and retries on duplicate keys.
	ModeFullReset Mode = "full-reset"
	// ModeAdditive keeps existing rows and skips duplicates.
	ModeAdditive Mode = "additive"
)

func (m Mode) Valid() bool {
	return m == ModeFullReset || m == ModeAdditive
}

// Policy is the conflict handling every insert of a run uses.
func (m Mode) Policy() types.ConflictPolicy {
	if m == ModeAdditive {
		return types.SkipOnConflict
	}
	return types.FailOnConflict
}

// DefaultClear is the clear scope a mode uses when none is configured.
func (m Mode) DefaultClear() types.ClearScope {
	if m == ModeAdditive {
		return types.ClearSelective
	}
	return types.ClearFull
}

type DemoUser struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      types.Role
}

// BucketSpec shapes the schedule. Offsets are relative to now except
// EndedYesterday, which holds times of day.
type BucketSpec struct {
	EndedYesterday         []time.Duration
	EndedYesterdayDuration time.Duration

	InProgressAgo      []time.Duration
	InProgressDuration time.Duration

	ImminentIn []time.Duration
	LaterToday []time.Duration
	// Duration of imminent and later-today classes.
	DefaultDuration time.Duration

	Upcoming          int
	UpcomingDays      int
	FirstSlot         time.Duration
	LastSlot          time.Duration
	SlotStep          time.Duration
	UpcomingDurations []time.Duration

	CapacityMin int
	CapacityMax int
}

func DefaultBuckets() BucketSpec {
	return BucketSpec{
		EndedYesterday:         []time.Duration{9 * time.Hour, 17 * time.Hour},
		EndedYesterdayDuration: 60 * time.Minute,
		InProgressAgo:          []time.Duration{20 * time.Minute, 40 * time.Minute},
		InProgressDuration:     90 * time.Minute,
		ImminentIn:             []time.Duration{5 * time.Minute},
		LaterToday:             []time.Duration{time.Hour, 3 * time.Hour},
		DefaultDuration:        60 * time.Minute,
		Upcoming:               4,
		UpcomingDays:           7,
		FirstSlot:              6 * time.Hour,
		LastSlot:               20 * time.Hour,
		SlotStep:               30 * time.Minute,
		UpcomingDurations:      []time.Duration{45 * time.Minute, 60 * time.Minute, 90 * time.Minute},
		CapacityMin:            8,
		CapacityMax:            20,
	}
}

func (b BucketSpec) Validate() error {
	if b.CapacityMin < 1 || b.CapacityMax < b.CapacityMin {
		return fmt.Errorf("invalid capacity range [%d, %d]", b.CapacityMin, b.CapacityMax)
	}
	if b.Upcoming < 0 {
		return fmt.Errorf("upcoming class count must not be negative")
	}
	if b.Upcoming > 0 {
		if b.UpcomingDays < 1 {
			return fmt.Errorf("upcoming days must be at least 1")
		}
		if len(b.UpcomingDurations) == 0 {
			return fmt.Errorf("no upcoming durations configured")
		}
		if b.SlotStep <= 0 || b.LastSlot < b.FirstSlot {
			return fmt.Errorf("invalid upcoming slot range %s..%s step %s", b.FirstSlot, b.LastSlot, b.SlotStep)
		}
	}
	return nil
}

type ParticipationSpec struct {
	MinBookings    int
	MaxBookings    int
	AttendanceRate float64
	ScoreMin       int
	ScoreMax       int
}

func DefaultParticipation() ParticipationSpec {
	return ParticipationSpec{
		MinBookings:    3,
		MaxBookings:    15,
		AttendanceRate: 0.8,
		ScoreMin:       60,
		ScoreMax:       100,
	}
}

func (p ParticipationSpec) Validate() error {
	if p.MinBookings < 0 || p.MaxBookings < p.MinBookings {
		return fmt.Errorf("invalid booking range [%d, %d]", p.MinBookings, p.MaxBookings)
	}
	if p.AttendanceRate < 0 || p.AttendanceRate > 1 {
		return fmt.Errorf("attendance rate %.2f out of [0, 1]", p.AttendanceRate)
	}
	if p.ScoreMin < 0 || p.ScoreMax < p.ScoreMin {
		return fmt.Errorf("invalid score range [%d, %d]", p.ScoreMin, p.ScoreMax)
	}
	return nil
}

type Options struct {
	Mode  Mode
	Clear types.ClearScope

	// Counts is the number of random identities per role, on top of the demo ones.
	Counts     map[types.Role]int
	Workouts   int
	CreditsMin int
	CreditsMax int

	DemoUsers    []DemoUser
	DemoPassword string
	EmailDomain  string

	Buckets           BucketSpec
	Participation     ParticipationSpec
	ImminentThreshold time.Duration
	Exercises         []types.Exercise

	// MaxAttempts bounds regeneration after a duplicate key in full-reset mode.
	MaxAttempts int
}

func DefaultDemoUsers() []DemoUser {
	return []DemoUser{
		{FirstName: "Alice", LastName: "Admin", Email: "alice.admin@example.com", Phone: "0101001001", Role: types.RoleAdmin},
		{FirstName: "Carl", LastName: "Coach", Email: "carl.coach@example.com", Phone: "0101002002", Role: types.RoleCoach},
		{FirstName: "Mandy", LastName: "Manager", Email: "mandy.manager@example.com", Phone: "0101003003", Role: types.RoleManager},
		{FirstName: "Mike", LastName: "Member", Email: "mike.member@example.com", Phone: "0101004004", Role: types.RoleMember},
		{FirstName: "Mia", LastName: "Member", Email: "mia.member@example.com", Phone: "0101005005", Role: types.RoleMember},
	}
}

func DefaultOptions() Options {
	return Options{
		Mode:  ModeFullReset,
		Clear: types.ClearFull,
		Counts: map[types.Role]int{
			types.RoleAdmin:   3,
			types.RoleCoach:   5,
			types.RoleManager: 0,
			types.RoleMember:  15,
		},
		Workouts:          8,
		CreditsMin:        5,
		CreditsMax:        20,
		DemoUsers:         DefaultDemoUsers(),
		DemoPassword:      "Passw0rd!",
		EmailDomain:       "example.com",
		Buckets:           DefaultBuckets(),
		Participation:     DefaultParticipation(),
		ImminentThreshold: 10 * time.Minute,
		Exercises:         ExerciseCatalog(),
		MaxAttempts:       5,
	}
}

func (o Options) Validate() error {
	if !o.Mode.Valid() {
		return fmt.Errorf("unknown mode %q (use %s or %s)", o.Mode, ModeFullReset, ModeAdditive)
	}
	if !o.Clear.Valid() {
		return fmt.Errorf("unknown clear scope %q", o.Clear)
	}
	if o.Mode == ModeFullReset && o.Clear != types.ClearFull {
		return fmt.Errorf("mode %s requires clear scope %s, got %s", ModeFullReset, types.ClearFull, o.Clear)
	}
	for role, n := range o.Counts {
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", role)
		}
		if n < 0 {
			return fmt.Errorf("%s count must not be negative", role)
		}
	}
	for _, d := range o.DemoUsers {
		if !d.Role.Valid() {
			return fmt.Errorf("demo user %s has unknown role %q", d.Email, d.Role)
		}
	}
	if o.CreditsMin < 0 || o.CreditsMax < o.CreditsMin {
		return fmt.Errorf("invalid credits range [%d, %d]", o.CreditsMin, o.CreditsMax)
	}
	if o.Workouts < 1 {
		return fmt.Errorf("at least one workout is required")
	}
	if o.ImminentThreshold <= 0 {
		return fmt.Errorf("imminent threshold must be positive")
	}
	if o.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1")
	}
	if err := o.Buckets.Validate(); err != nil {
		return err
	}
	return o.Participation.Validate()
}

// Roster holds the identity ids of a run per role. Demo ids are listed
// first within their role.
type Roster struct {
	IDs     map[types.Role][]int64
	Demo    map[types.Role][]int64
	Created map[types.Role]int
	Skipped map[types.Role]int
}

func NewRoster() *Roster {
	return &Roster{
		IDs:     make(map[types.Role][]int64),
		Demo:    make(map[types.Role][]int64),
		Created: make(map[types.Role]int),
		Skipped: make(map[types.Role]int),
	}
}

func (r *Roster) add(role types.Role, id int64, demo, created bool) {
	r.IDs[role] = append(r.IDs[role], id)
	if demo {
		r.Demo[role] = append(r.Demo[role], id)
	}
	if created {
		r.Created[role]++
	} else {
		r.Skipped[role]++
	}
}

func (r *Roster) Total() int {
	n := 0
	for _, ids := range r.IDs {
		n += len(ids)
	}
	return n
}

// Result summarises one committed run.
type Result struct {
	Mode    Mode
	Cleared []string
	Now     time.Time

	Roster     *Roster
	DemoUsers  []DemoUser
	Password   string
	WorkoutIDs []int64

	WorkoutsCreated  int
	WorkoutsSkipped  int
	ExercisesCreated int
	ExercisesTotal   int

	Classes    []types.Class
	Bookings   []types.Booking
	Attendance []types.Attendance

	Threshold time.Duration
}

func (r *Result) States() map[types.State]int {
	return types.CountStates(r.Classes, r.Now, r.Threshold)
}
