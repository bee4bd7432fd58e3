package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/auth"
	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
	"github.com/fatih/color"
)

type Seeder struct {
	begin  BeginFunc
	hasher auth.Hasher
	rand   *rand.Rand
	now    func() time.Time
	opts   Options
	graph  *DependencyGraph
}

// NewSeeder wires a run. r drives every random choice and now is read once
// per run; all lifecycle decisions use that instant.
func NewSeeder(begin BeginFunc, hasher auth.Hasher, r *rand.Rand, now func() time.Time, opts Options) *Seeder {
	if now == nil {
		now = time.Now
	}
	return &Seeder{
		begin:  begin,
		hasher: hasher,
		rand:   r,
		now:    now,
		opts:   opts,
		graph:  NewDependencyGraph(types.GymSchema...),
	}
}

// Seed clears and regenerates the data set in a single transaction. On
// any error the transaction is rolled back and nothing is kept.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed options: %w", err)
	}

	color.Cyan("🌱 Starting database seeding (%s)...", s.opts.Mode)

	order, err := s.graph.BuildInsertionOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to build insertion order: %w", err)
	}
	color.Cyan("📋 Insertion order: %s", strings.Join(order, " → "))
	fmt.Println()

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	color.Cyan("🔒 Transaction started")

	res, seedErr := s.run(ctx, tx)
	if seedErr != nil {
		color.Yellow("🔄 Rolling back transaction due to error...")
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			return nil, fmt.Errorf("seed failed and rollback failed: %v (original: %w)", rbErr, seedErr)
		}
		color.Yellow("✅ Transaction rolled back")
		return nil, seedErr
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	color.Cyan("🔓 Transaction committed")

	color.Green("\n✅ Database seeding completed successfully!")
	return res, nil
}

func (s *Seeder) run(ctx context.Context, tx Tx) (*Result, error) {
	now := s.now()
	res := &Result{
		Mode:           s.opts.Mode,
		Now:            now,
		DemoUsers:      s.opts.DemoUsers,
		Password:       s.opts.DemoPassword,
		Threshold:      s.opts.ImminentThreshold,
		ExercisesTotal: len(s.opts.Exercises),
	}

	cleared, err := NewClearer(tx, s.graph).Clear(ctx, s.opts.Clear)
	if err != nil {
		return nil, err
	}
	res.Cleared = cleared

	gen := NewDataGenerator(s.rand)

	color.Cyan("  📝 Seeding identities...")
	roster := NewRoster()
	identities := NewIdentityGenerator(tx, gen, s.hasher, s.opts, roster)
	if err := identities.SeedDemo(ctx, s.opts.DemoUsers); err != nil {
		return nil, fmt.Errorf("failed to seed demo users: %w", err)
	}
	for _, role := range types.Roles {
		if _, err := identities.Generate(ctx, role, s.opts.Counts[role]); err != nil {
			return nil, fmt.Errorf("failed to seed %s identities: %w", role, err)
		}
	}
	res.Roster = roster
	color.Green("  ✅ %d identities (%d new)", roster.Total(), sumCounts(roster.Created))

	color.Cyan("  📝 Seeding workouts (%d)...", s.opts.Workouts)
	content := NewContentGenerator(tx, gen, s.opts)
	workoutIDs, err := content.Generate(ctx, s.opts.Workouts)
	if err != nil {
		return nil, fmt.Errorf("failed to seed workouts: %w", err)
	}
	res.WorkoutIDs = workoutIDs
	res.WorkoutsCreated = content.Created
	res.WorkoutsSkipped = content.Skipped

	if len(s.opts.Exercises) > 0 {
		color.Cyan("  📝 Seeding exercise catalog (%d)...", len(s.opts.Exercises))
		if res.ExercisesCreated, err = content.SeedExercises(ctx, s.opts.Exercises); err != nil {
			return nil, fmt.Errorf("failed to seed exercises: %w", err)
		}
	}

	color.Cyan("  📝 Scheduling classes...")
	schedule := NewScheduleGenerator(tx, s.rand, s.opts.Buckets)
	classes, err := schedule.Generate(ctx, now, workoutIDs, roster.IDs[types.RoleCoach], roster.IDs[types.RoleAdmin])
	if err != nil {
		return nil, fmt.Errorf("failed to seed classes: %w", err)
	}
	res.Classes = classes
	color.Green("  ✅ %d classes scheduled", len(classes))

	color.Cyan("  📝 Booking members...")
	participation := NewParticipationGenerator(tx, s.rand, s.opts.Participation, s.opts.ImminentThreshold)
	bookings, attendance, err := participation.Generate(ctx, now, classes, roster.IDs[types.RoleMember], roster.Demo[types.RoleMember])
	if err != nil {
		return nil, fmt.Errorf("failed to seed participation: %w", err)
	}
	res.Bookings = bookings
	res.Attendance = attendance
	color.Green("  ✅ %d bookings, %d attendance records", len(bookings), len(attendance))

	return res, nil
}

func sumCounts(m map[types.Role]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
