package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/auth"
	"github.com/Lumos-Labs-HQ/gymseed/internal/config"
	"github.com/Lumos-Labs-HQ/gymseed/internal/database"
	"github.com/Lumos-Labs-HQ/gymseed/internal/report"
	"github.com/Lumos-Labs-HQ/gymseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/gymseed/internal/store"
	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
	"github.com/Lumos-Labs-HQ/gymseed/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func runSeed(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := buildOptions(cfg)
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid seed options: %w", err)
	}

	force, _ := cmd.Flags().GetBool("force")
	if opts.Mode == seeder.ModeFullReset {
		input := utils.NewInputUtils()
		if !input.AskConfirmation("⚠️  This will delete ALL users, workouts, classes and bookings. Continue?", force) {
			color.Yellow("Seeding cancelled")
			return nil
		}
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter := database.NewAdapter(cfg.Database.Provider)
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer adapter.Close()

	if err := adapter.Ping(ctx); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}
	color.Green("✅ Connected to %s", adapter.Provider())

	seed := cfg.Seed.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	color.Cyan("🎲 Random seed: %d", seed)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	begin := func(ctx context.Context) (seeder.Tx, error) {
		return store.Begin(ctx, adapter)
	}
	hasher := auth.BcryptHasher{Cost: cfg.Seed.BcryptCost}

	res, err := seeder.NewSeeder(begin, hasher, rand.New(rand.NewSource(seed)), now, opts).Seed(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	report.Print(color.Output, res)
	return nil
}

// buildOptions maps the loaded configuration onto seeder options. Anything
// the configuration does not expose keeps its default.
func buildOptions(cfg *config.Config) seeder.Options {
	opts := seeder.DefaultOptions()
	opts.Mode = seeder.Mode(cfg.Seed.Mode)
	opts.Clear = types.ClearScope(cfg.ClearScope())
	opts.Counts = map[types.Role]int{
		types.RoleAdmin:   cfg.Seed.Admins,
		types.RoleCoach:   cfg.Seed.Coaches,
		types.RoleManager: cfg.Seed.Managers,
		types.RoleMember:  cfg.Seed.Members,
	}
	opts.Workouts = cfg.Seed.Workouts
	opts.DemoPassword = cfg.Seed.DemoPassword
	opts.ImminentThreshold = cfg.Seed.ImminentThreshold
	opts.Buckets.Upcoming = cfg.Seed.UpcomingClasses
	opts.Buckets.CapacityMin = cfg.Seed.CapacityMin
	opts.Buckets.CapacityMax = cfg.Seed.CapacityMax
	return opts
}
