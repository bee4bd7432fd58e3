package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/gymseed/internal/database"
	"github.com/Lumos-Labs-HQ/gymseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
	"github.com/Masterminds/squirrel"
)

const insertSavepoint = "gymseed_insert"

// Store writes seed rows inside one database transaction.
type Store struct {
	db database.DatabaseAdapter
	tx common.Tx
	qb squirrel.StatementBuilderType
}

func Begin(ctx context.Context, db database.DatabaseAdapter) (*Store, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, tx: tx, qb: db.Builder()}, nil
}

func (s *Store) Commit(ctx context.Context) error {
	return s.tx.Commit(ctx)
}

func (s *Store) Rollback(ctx context.Context) error {
	return s.tx.Rollback(ctx)
}

func (s *Store) Truncate(ctx context.Context, tables []string) error {
	return s.db.Truncate(ctx, s.tx, tables)
}

func (s *Store) CreateUser(ctx context.Context, u *types.User, policy types.ConflictPolicy) (bool, error) {
	ins := s.qb.Insert(types.TableUsers).
		Columns("first_name", "last_name", "email", "phone", "password_hash").
		Values(u.FirstName, u.LastName, u.Email, u.Phone, u.PasswordHash)

	id, created, err := s.insertID(ctx, types.TableUsers, ins, "user_id", policy, "email")
	if err != nil {
		return false, err
	}
	if created {
		u.ID = id
	}
	return created, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (types.User, error) {
	query, args, err := s.qb.Select("user_id", "first_name", "last_name", "email", "phone", "password_hash").
		From(types.TableUsers).
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return types.User{}, err
	}

	var u types.User
	var phone *string
	err = s.tx.QueryRow(ctx, query, args...).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &phone, &u.PasswordHash)
	if errors.Is(err, common.ErrNoRows) {
		return types.User{}, fmt.Errorf("user %s: %w", email, types.ErrNotFound)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if phone != nil {
		u.Phone = *phone
	}
	return u, nil
}

func (s *Store) AssignRole(ctx context.Context, userID int64, role types.Role, policy types.ConflictPolicy) (bool, error) {
	ins := s.qb.Insert(types.TableUserRoles).
		Columns("user_id", "user_role").
		Values(userID, string(role))
	return s.insert(ctx, types.TableUserRoles, ins, policy, "user_id", "user_role")
}

// CreateProfile writes the subtype row matching p.Role.
func (s *Store) CreateProfile(ctx context.Context, p types.Profile, policy types.ConflictPolicy) (bool, error) {
	var ins squirrel.InsertBuilder
	var table string

	switch p.Role {
	case types.RoleAdmin:
		table = types.TableAdmins
		ins = s.qb.Insert(table).Columns("user_id", "authorisation").Values(p.UserID, p.Authorisation)
	case types.RoleCoach:
		table = types.TableCoaches
		ins = s.qb.Insert(table).Columns("user_id", "bio").Values(p.UserID, p.Bio)
	case types.RoleManager:
		table = types.TableManagers
		ins = s.qb.Insert(table).Columns("user_id").Values(p.UserID)
	case types.RoleMember:
		table = types.TableMembers
		ins = s.qb.Insert(table).Columns("user_id", "status", "credits_balance").Values(p.UserID, string(p.Status), p.Credits)
	default:
		return false, fmt.Errorf("unknown role %q", p.Role)
	}

	return s.insert(ctx, table, ins, policy, "user_id")
}

func (s *Store) CreateWorkout(ctx context.Context, w *types.Workout, policy types.ConflictPolicy) (bool, error) {
	ins := s.qb.Insert(types.TableWorkouts).
		Columns("workout_name", "workout_content", "type").
		Values(w.Name, w.Content, string(w.Type))

	id, created, err := s.insertID(ctx, types.TableWorkouts, ins, "workout_id", policy, "workout_name")
	if err != nil {
		return false, err
	}
	if created {
		w.ID = id
	}
	return created, nil
}

func (s *Store) FindWorkoutByName(ctx context.Context, name string) (types.Workout, error) {
	query, args, err := s.qb.Select("workout_id", "workout_name").
		From(types.TableWorkouts).
		Where(squirrel.Eq{"workout_name": name}).
		ToSql()
	if err != nil {
		return types.Workout{}, err
	}

	var w types.Workout
	err = s.tx.QueryRow(ctx, query, args...).Scan(&w.ID, &w.Name)
	if errors.Is(err, common.ErrNoRows) {
		return types.Workout{}, fmt.Errorf("workout %s: %w", name, types.ErrNotFound)
	}
	if err != nil {
		return types.Workout{}, fmt.Errorf("failed to look up workout %s: %w", name, err)
	}
	return w, nil
}

// CreateExercise always skips names that already exist.
func (s *Store) CreateExercise(ctx context.Context, e types.Exercise) (bool, error) {
	ins := s.qb.Insert(types.TableExercises).
		Columns("name", "description").
		Values(e.Name, e.Description)
	return s.insert(ctx, types.TableExercises, ins, types.SkipOnConflict, "name")
}

func (s *Store) CreateClass(ctx context.Context, c *types.Class) error {
	ins := s.qb.Insert(types.TableClasses).
		Columns("capacity", "scheduled_date", "scheduled_time", "duration_minutes", "coach_id", "workout_id", "created_by").
		Values(c.Capacity, c.ScheduledDate(), c.ScheduledTime(), c.DurationMinutes(), c.CoachID, c.WorkoutID, c.CreatedBy)

	id, _, err := s.db.InsertReturningID(ctx, s.tx, ins, "class_id")
	if err != nil {
		return fmt.Errorf("failed to insert class: %w", err)
	}
	c.ID = id
	return nil
}

func (s *Store) CreateBooking(ctx context.Context, b types.Booking) error {
	ins := s.qb.Insert(types.TableBookings).
		Columns("class_id", "member_id").
		Values(b.ClassID, b.MemberID)
	if err := s.exec(ctx, ins); err != nil {
		return fmt.Errorf("failed to insert booking %d/%d: %w", b.ClassID, b.MemberID, err)
	}
	return nil
}

func (s *Store) CreateAttendance(ctx context.Context, a types.Attendance) error {
	ins := s.qb.Insert(types.TableAttendance).
		Columns("class_id", "member_id", "score").
		Values(a.ClassID, a.MemberID, a.Score)
	if err := s.exec(ctx, ins); err != nil {
		return fmt.Errorf("failed to insert attendance %d/%d: %w", a.ClassID, a.MemberID, err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, ins squirrel.InsertBuilder) error {
	query, args, err := ins.ToSql()
	if err != nil {
		return err
	}
	_, err = s.tx.Exec(ctx, query, args...)
	return err
}

// insert runs ins under policy and reports whether a row was written.
func (s *Store) insert(ctx context.Context, table string, ins squirrel.InsertBuilder, policy types.ConflictPolicy, conflictColumns ...string) (bool, error) {
	if policy == types.SkipOnConflict {
		query, args, err := s.db.SkipDuplicates(ins, conflictColumns...).ToSql()
		if err != nil {
			return false, err
		}
		res, err := s.tx.Exec(ctx, query, args...)
		if err != nil {
			return false, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		return res.RowsAffected > 0, nil
	}

	err := s.guarded(ctx, table, func() error { return s.exec(ctx, ins) })
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) insertID(ctx context.Context, table string, ins squirrel.InsertBuilder, idColumn string, policy types.ConflictPolicy, conflictColumns ...string) (int64, bool, error) {
	if policy == types.SkipOnConflict {
		id, created, err := s.db.InsertReturningID(ctx, s.tx, s.db.SkipDuplicates(ins, conflictColumns...), idColumn)
		if err != nil {
			return 0, false, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		return id, created, nil
	}

	var id int64
	err := s.guarded(ctx, table, func() error {
		var err error
		id, _, err = s.db.InsertReturningID(ctx, s.tx, ins, idColumn)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// guarded runs fn inside a savepoint so a unique violation leaves the
// transaction usable, and reports it as types.ErrDuplicate.
func (s *Store) guarded(ctx context.Context, table string, fn func() error) error {
	return common.Savepoint(ctx, s.tx, insertSavepoint, func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if s.db.IsUniqueViolation(err) {
			return fmt.Errorf("insert into %s: %w", table, types.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	})
}
