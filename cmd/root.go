package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/gymseed/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	configErr error
	Version   = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:   "gymseed",
	Short: "Populate a gym class-booking database with realistic demo data",
	Long: `
gymseed fills a HIIT gym database with users, workouts, an exercise catalog,
classes spread across their lifecycle, bookings and attendance.

Modes:
- full-reset  wipe every generated table, then seed from scratch (default)
- additive    keep identities, clear the schedule, reuse what already exists

Database Support:
- PostgreSQL
- MySQL
- SQLite`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSeed,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is ./%s)", config.FileName))
	flags.BoolP("force", "f", false, "Skip confirmations")
	flags.String("mode", "full-reset", "seed mode: full-reset or additive")
	flags.String("clear", "", "clear scope: full, selective or none (default depends on mode)")
	flags.Int64("seed", 0, "random seed, 0 picks one from the clock")
	flags.Int("admins", 3, "random admins besides the demo accounts")
	flags.Int("coaches", 5, "random coaches besides the demo accounts")
	flags.Int("managers", 0, "random managers besides the demo accounts")
	flags.Int("members", 15, "random members besides the demo accounts")
	flags.Int("workouts", 8, "workouts to generate")
	flags.Int("upcoming", 4, "upcoming classes in the next week")

	bindings := map[string]string{
		"seed.mode":             "mode",
		"seed.clear":            "clear",
		"seed.random_seed":      "seed",
		"seed.admins":           "admins",
		"seed.coaches":          "coaches",
		"seed.managers":         "managers",
		"seed.members":          "members",
		"seed.workouts":         "workouts",
		"seed.upcoming_classes": "upcoming",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	// Variables already in the environment win, then .env.local, then .env.
	for _, file := range []string{".env.local", ".env"} {
		_ = godotenv.Load(file)
	}

	config.Register(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("gymseed.config")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Only an explicitly requested file has to exist.
		if cfgFile != "" {
			configErr = fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}
}
