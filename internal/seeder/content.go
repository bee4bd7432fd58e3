package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

// ContentGenerator creates workouts and the exercise catalog. Neither
// references identities.
type ContentGenerator struct {
	tx   Tx
	gen  *DataGenerator
	opts Options

	Created int
	Skipped int
}

func NewContentGenerator(tx Tx, gen *DataGenerator, opts Options) *ContentGenerator {
	return &ContentGenerator{tx: tx, gen: gen, opts: opts}
}

func (c *ContentGenerator) Generate(ctx context.Context, count int) ([]int64, error) {
	if count < 1 {
		return nil, fmt.Errorf("at least one workout is required")
	}

	policy := c.opts.Mode.Policy()
	ids := make([]int64, 0, count)

	for i := 1; i <= count; i++ {
		w := c.workout(i)

		var created bool
		var err error
		for attempt := 1; ; attempt++ {
			created, err = c.tx.CreateWorkout(ctx, &w, policy)
			if err == nil || !errors.Is(err, types.ErrDuplicate) || attempt >= c.opts.MaxAttempts {
				break
			}
			w = c.workout(i)
		}
		if err != nil {
			return ids, fmt.Errorf("workout %s: %w", w.Name, err)
		}

		if created {
			c.Created++
		} else {
			existing, err := c.tx.FindWorkoutByName(ctx, w.Name)
			if err != nil {
				return ids, err
			}
			w.ID = existing.ID
			c.Skipped++
		}
		ids = append(ids, w.ID)
	}
	return ids, nil
}

func (c *ContentGenerator) workout(n int) types.Workout {
	w := types.Workout{
		Content: c.gen.Paragraph(3),
		Type:    pick(c.gen.rand, types.WorkoutTypes),
	}
	if c.opts.Mode == ModeAdditive {
		w.Name = c.gen.OrdinalWorkoutName(n)
	} else {
		w.Name = c.gen.WorkoutName()
	}
	return w
}

// SeedExercises inserts the catalog, skipping names already present, and
// returns how many rows were new.
func (c *ContentGenerator) SeedExercises(ctx context.Context, catalog []types.Exercise) (int, error) {
	created := 0
	for _, e := range catalog {
		ok, err := c.tx.CreateExercise(ctx, e)
		if err != nil {
			return created, fmt.Errorf("exercise %s: %w", e.Name, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}
