package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

type memState struct {
	users    map[int64]types.User
	emails   map[string]int64
	nextUser int64

	roles    map[int64]map[types.Role]bool
	profiles map[types.Role]map[int64]types.Profile

	workouts     map[int64]types.Workout
	workoutNames map[string]int64
	nextWorkout  int64

	exercises map[string]types.Exercise

	classes   map[int64]types.Class
	nextClass int64

	bookings   map[types.Booking]bool
	attendance map[types.Booking]types.Attendance
}

func newMemState() *memState {
	s := &memState{
		users:        make(map[int64]types.User),
		emails:       make(map[string]int64),
		roles:        make(map[int64]map[types.Role]bool),
		profiles:     make(map[types.Role]map[int64]types.Profile),
		workouts:     make(map[int64]types.Workout),
		workoutNames: make(map[string]int64),
		exercises:    make(map[string]types.Exercise),
		classes:      make(map[int64]types.Class),
		bookings:     make(map[types.Booking]bool),
		attendance:   make(map[types.Booking]types.Attendance),
	}
	for _, r := range types.Roles {
		s.profiles[r] = make(map[int64]types.Profile)
	}
	return s
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextUser, c.nextWorkout, c.nextClass = s.nextUser, s.nextWorkout, s.nextClass
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.emails {
		c.emails[k] = v
	}
	for k, v := range s.roles {
		c.roles[k] = make(map[types.Role]bool)
		for r := range v {
			c.roles[k][r] = true
		}
	}
	for r, m := range s.profiles {
		for k, v := range m {
			c.profiles[r][k] = v
		}
	}
	for k, v := range s.workouts {
		c.workouts[k] = v
	}
	for k, v := range s.workoutNames {
		c.workoutNames[k] = v
	}
	for k, v := range s.exercises {
		c.exercises[k] = v
	}
	for k, v := range s.classes {
		c.classes[k] = v
	}
	for k := range s.bookings {
		c.bookings[k] = true
	}
	for k, v := range s.attendance {
		c.attendance[k] = v
	}
	return c
}

// memStore is an in-memory stand-in for the database. It enforces the
// unique and foreign keys of the schema and keeps uncommitted writes in a
// copy of the state.
type memStore struct {
	state *memState

	// takenEmails are reported as duplicates once, as if another writer
	// had claimed them.
	takenEmails map[string]bool
	// failBooking makes the n-th booking of a transaction fail.
	failBooking int

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{state: newMemState(), takenEmails: make(map[string]bool)}
}

func (m *memStore) Begin(ctx context.Context) (Tx, error) {
	return &memTx{store: m, s: m.state.clone()}, nil
}

type memTx struct {
	store    *memStore
	s        *memState
	bookings int
	done     bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("transaction already closed")
	}
	t.done = true
	t.store.state = t.s
	t.store.commits++
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.rollbacks++
	return nil
}

func (t *memTx) rowCount(table string) int {
	switch table {
	case types.TableUsers:
		return len(t.s.users)
	case types.TableUserRoles:
		return len(t.s.roles)
	case types.TableAdmins:
		return len(t.s.profiles[types.RoleAdmin])
	case types.TableCoaches:
		return len(t.s.profiles[types.RoleCoach])
	case types.TableManagers:
		return len(t.s.profiles[types.RoleManager])
	case types.TableMembers:
		return len(t.s.profiles[types.RoleMember])
	case types.TableWorkouts:
		return len(t.s.workouts)
	case types.TableExercises:
		return len(t.s.exercises)
	case types.TableClasses:
		return len(t.s.classes)
	case types.TableBookings:
		return len(t.s.bookings)
	case types.TableAttendance:
		return len(t.s.attendance)
	}
	return 0
}

// Truncate refuses to empty a table while a dependent table still has rows.
func (t *memTx) Truncate(ctx context.Context, tables []string) error {
	for _, name := range tables {
		for _, st := range types.GymSchema {
			for _, dep := range st.Dependencies {
				if dep == name && t.rowCount(st.Name) > 0 {
					return fmt.Errorf("cannot clear %s: %s still references it", name, st.Name)
				}
			}
		}

		switch name {
		case types.TableUsers:
			t.s.users = make(map[int64]types.User)
			t.s.emails = make(map[string]int64)
			t.s.nextUser = 0
		case types.TableUserRoles:
			t.s.roles = make(map[int64]map[types.Role]bool)
		case types.TableAdmins:
			t.s.profiles[types.RoleAdmin] = make(map[int64]types.Profile)
		case types.TableCoaches:
			t.s.profiles[types.RoleCoach] = make(map[int64]types.Profile)
		case types.TableManagers:
			t.s.profiles[types.RoleManager] = make(map[int64]types.Profile)
		case types.TableMembers:
			t.s.profiles[types.RoleMember] = make(map[int64]types.Profile)
		case types.TableWorkouts:
			t.s.workouts = make(map[int64]types.Workout)
			t.s.workoutNames = make(map[string]int64)
			t.s.nextWorkout = 0
		case types.TableExercises:
			t.s.exercises = make(map[string]types.Exercise)
		case types.TableClasses:
			t.s.classes = make(map[int64]types.Class)
			t.s.nextClass = 0
		case types.TableBookings:
			t.s.bookings = make(map[types.Booking]bool)
		case types.TableAttendance:
			t.s.attendance = make(map[types.Booking]types.Attendance)
		default:
			return fmt.Errorf("unknown table %s", name)
		}
	}
	return nil
}

func conflict(table string, policy types.ConflictPolicy) (bool, error) {
	if policy == types.SkipOnConflict {
		return false, nil
	}
	return false, fmt.Errorf("insert into %s: %w", table, types.ErrDuplicate)
}

func (t *memTx) CreateUser(ctx context.Context, u *types.User, policy types.ConflictPolicy) (bool, error) {
	if t.store.takenEmails[u.Email] {
		delete(t.store.takenEmails, u.Email)
		return false, fmt.Errorf("insert into users: %w", types.ErrDuplicate)
	}
	if _, ok := t.s.emails[u.Email]; ok {
		return conflict(types.TableUsers, policy)
	}
	t.s.nextUser++
	u.ID = t.s.nextUser
	t.s.users[u.ID] = *u
	t.s.emails[u.Email] = u.ID
	return true, nil
}

func (t *memTx) FindUserByEmail(ctx context.Context, email string) (types.User, error) {
	id, ok := t.s.emails[email]
	if !ok {
		return types.User{}, types.ErrNotFound
	}
	return t.s.users[id], nil
}

func (t *memTx) AssignRole(ctx context.Context, userID int64, role types.Role, policy types.ConflictPolicy) (bool, error) {
	if _, ok := t.s.users[userID]; !ok {
		return false, fmt.Errorf("userroles: user %d does not exist", userID)
	}
	if t.s.roles[userID][role] {
		return conflict(types.TableUserRoles, policy)
	}
	if t.s.roles[userID] == nil {
		t.s.roles[userID] = make(map[types.Role]bool)
	}
	t.s.roles[userID][role] = true
	return true, nil
}

func (t *memTx) CreateProfile(ctx context.Context, p types.Profile, policy types.ConflictPolicy) (bool, error) {
	if _, ok := t.s.users[p.UserID]; !ok {
		return false, fmt.Errorf("%s: user %d does not exist", p.Role, p.UserID)
	}
	profiles, ok := t.s.profiles[p.Role]
	if !ok {
		return false, fmt.Errorf("unknown role %q", p.Role)
	}
	if _, ok := profiles[p.UserID]; ok {
		return conflict(string(p.Role), policy)
	}
	profiles[p.UserID] = p
	return true, nil
}

func (t *memTx) CreateWorkout(ctx context.Context, w *types.Workout, policy types.ConflictPolicy) (bool, error) {
	if _, ok := t.s.workoutNames[w.Name]; ok {
		return conflict(types.TableWorkouts, policy)
	}
	t.s.nextWorkout++
	w.ID = t.s.nextWorkout
	t.s.workouts[w.ID] = *w
	t.s.workoutNames[w.Name] = w.ID
	return true, nil
}

func (t *memTx) FindWorkoutByName(ctx context.Context, name string) (types.Workout, error) {
	id, ok := t.s.workoutNames[name]
	if !ok {
		return types.Workout{}, types.ErrNotFound
	}
	return t.s.workouts[id], nil
}

func (t *memTx) CreateExercise(ctx context.Context, e types.Exercise) (bool, error) {
	if _, ok := t.s.exercises[e.Name]; ok {
		return false, nil
	}
	t.s.exercises[e.Name] = e
	return true, nil
}

func (t *memTx) CreateClass(ctx context.Context, c *types.Class) error {
	if c.Capacity < 1 {
		return fmt.Errorf("classes: capacity %d", c.Capacity)
	}
	if _, ok := t.s.profiles[types.RoleCoach][c.CoachID]; !ok {
		return fmt.Errorf("classes: coach %d does not exist", c.CoachID)
	}
	if _, ok := t.s.profiles[types.RoleAdmin][c.CreatedBy]; !ok {
		return fmt.Errorf("classes: admin %d does not exist", c.CreatedBy)
	}
	if _, ok := t.s.workouts[c.WorkoutID]; !ok {
		return fmt.Errorf("classes: workout %d does not exist", c.WorkoutID)
	}
	t.s.nextClass++
	c.ID = t.s.nextClass
	t.s.classes[c.ID] = *c
	return nil
}

func (t *memTx) CreateBooking(ctx context.Context, b types.Booking) error {
	t.bookings++
	if t.store.failBooking > 0 && t.bookings == t.store.failBooking {
		return errors.New("connection reset")
	}
	if _, ok := t.s.classes[b.ClassID]; !ok {
		return fmt.Errorf("classbookings: class %d does not exist", b.ClassID)
	}
	if _, ok := t.s.profiles[types.RoleMember][b.MemberID]; !ok {
		return fmt.Errorf("classbookings: member %d does not exist", b.MemberID)
	}
	if t.s.bookings[b] {
		return fmt.Errorf("insert into classbookings: %w", types.ErrDuplicate)
	}
	t.s.bookings[b] = true
	return nil
}

func (t *memTx) CreateAttendance(ctx context.Context, a types.Attendance) error {
	if !t.s.bookings[a.Booking()] {
		return fmt.Errorf("classattendance: no booking %d/%d", a.ClassID, a.MemberID)
	}
	if _, ok := t.s.attendance[a.Booking()]; ok {
		return fmt.Errorf("insert into classattendance: %w", types.ErrDuplicate)
	}
	t.s.attendance[a.Booking()] = a
	return nil
}
