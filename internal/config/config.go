package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const FileName = "gymseed.config.json"

type Config struct {
	Database Database `json:"database" mapstructure:"database"`
	Seed     Seed     `json:"seed" mapstructure:"seed"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"` // 0 = provider default
	Name     string `json:"name" mapstructure:"name"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
	Path     string `json:"path" mapstructure:"path"` // sqlite file
}

type Seed struct {
	Mode       string `json:"mode" mapstructure:"mode"`
	Clear      string `json:"clear" mapstructure:"clear"` // empty = derived from mode
	RandomSeed int64  `json:"random_seed" mapstructure:"random_seed"`

	Admins          int `json:"admins" mapstructure:"admins"`
	Coaches         int `json:"coaches" mapstructure:"coaches"`
	Managers        int `json:"managers" mapstructure:"managers"`
	Members         int `json:"members" mapstructure:"members"`
	Workouts        int `json:"workouts" mapstructure:"workouts"`
	UpcomingClasses int `json:"upcoming_classes" mapstructure:"upcoming_classes"`
	CapacityMin     int `json:"capacity_min" mapstructure:"capacity_min"`
	CapacityMax     int `json:"capacity_max" mapstructure:"capacity_max"`

	ImminentThreshold time.Duration `json:"imminent_threshold" mapstructure:"imminent_threshold"`
	DemoPassword      string        `json:"demo_password" mapstructure:"demo_password"`
	BcryptCost        int           `json:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	Timezone          string        `json:"timezone" mapstructure:"timezone"`
}

var envBindings = map[string]string{
	"database.provider":  "DB_PROVIDER",
	"database.host":      "PGHOST",
	"database.port":      "PGPORT",
	"database.name":      "PGDATABASE",
	"database.user":      "PGUSER",
	"database.password":  "PGPASSWORD",
	"database.sslmode":   "PGSSLMODE",
	"database.path":      "SQLITE_PATH",
	"seed.mode":          "SEED_MODE",
	"seed.clear":         "SEED_CLEAR",
	"seed.random_seed":   "SEED_RANDOM_SEED",
	"seed.demo_password": "SEED_DEMO_PASSWORD",
	"seed.timezone":      "SEED_TIMEZONE",
}

// Register installs defaults and environment bindings on v. Call it before
// reading a config file or binding flags.
func Register(v *viper.Viper) {
	v.SetDefault("database.provider", "postgresql")
	v.SetDefault("database.url_env", "DATABASE_URL")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "HIIT_GYM")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "hiit_gym.db")

	v.SetDefault("seed.mode", "full-reset")
	v.SetDefault("seed.clear", "")
	v.SetDefault("seed.random_seed", 0)
	v.SetDefault("seed.admins", 3)
	v.SetDefault("seed.coaches", 5)
	v.SetDefault("seed.managers", 0)
	v.SetDefault("seed.members", 15)
	v.SetDefault("seed.workouts", 8)
	v.SetDefault("seed.upcoming_classes", 4)
	v.SetDefault("seed.capacity_min", 8)
	v.SetDefault("seed.capacity_max", 20)
	v.SetDefault("seed.imminent_threshold", "10m")
	v.SetDefault("seed.demo_password", "Passw0rd!")
	v.SetDefault("seed.bcrypt_cost", 0)
	v.SetDefault("seed.timezone", "Local")

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Provider = strings.ToLower(cfg.Database.Provider)
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}

	return &cfg, nil
}

// GetDatabaseURL prefers the URL in Database.URLEnv and otherwise builds
// one from the individual connection settings.
func (c *Config) GetDatabaseURL() (string, error) {
	if dbURL := os.Getenv(c.Database.URLEnv); dbURL != "" {
		if c.isPostgres() {
			return requireSSL(dbURL), nil
		}
		return dbURL, nil
	}

	db := c.Database
	switch db.Provider {
	case "postgresql", "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.User, db.Password),
			Host:     net.JoinHostPort(db.Host, strconv.Itoa(c.port(5432))),
			Path:     "/" + db.Name,
			RawQuery: url.Values{"sslmode": {db.SSLMode}}.Encode(),
		}
		return u.String(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = db.User
		mc.Passwd = db.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(db.Host, strconv.Itoa(c.port(3306)))
		mc.DBName = db.Name
		return mc.FormatDSN(), nil
	case "sqlite", "sqlite3":
		if db.Path == "" {
			return "", fmt.Errorf("sqlite database path is empty")
		}
		return "sqlite://" + db.Path, nil
	}
	return "", fmt.Errorf("unsupported database provider: %s", db.Provider)
}

func (c *Config) isPostgres() bool {
	return c.Database.Provider == "postgresql" || c.Database.Provider == "postgres"
}

func (c *Config) port(def int) int {
	if c.Database.Port == 0 {
		return def
	}
	return c.Database.Port
}

// requireSSL appends sslmode=require unless the URL already sets a mode.
// Hosted postgres rejects plain connections.
func requireSSL(dbURL string) string {
	if strings.Contains(dbURL, "sslmode=") {
		return dbURL
	}
	if strings.Contains(dbURL, "?") {
		return dbURL + "&sslmode=require"
	}
	return dbURL + "?sslmode=require"
}

// ClearScope is the configured clear scope, or the mode's default.
func (c *Config) ClearScope() string {
	if c.Seed.Clear != "" {
		return c.Seed.Clear
	}
	if c.Seed.Mode == "additive" {
		return "selective"
	}
	return "full"
}

func (c *Config) Location() (*time.Location, error) {
	switch c.Seed.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Seed.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Seed.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	switch c.Seed.Mode {
	case "full-reset", "additive":
	default:
		return fmt.Errorf("unsupported seed mode: %s. Supported modes: [full-reset additive]", c.Seed.Mode)
	}

	switch scope := c.ClearScope(); scope {
	case "full":
	case "selective", "none":
		if c.Seed.Mode == "full-reset" {
			return fmt.Errorf("seed mode full-reset requires clear=full, got %s", scope)
		}
	default:
		return fmt.Errorf("unsupported clear scope: %s. Supported scopes: [full selective none]", scope)
	}

	counts := map[string]int{
		"admins":           c.Seed.Admins,
		"coaches":          c.Seed.Coaches,
		"managers":         c.Seed.Managers,
		"members":          c.Seed.Members,
		"upcoming_classes": c.Seed.UpcomingClasses,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("seed.%s cannot be negative", name)
		}
	}
	if c.Seed.Workouts < 1 {
		return fmt.Errorf("seed.workouts must be at least 1")
	}
	if c.Seed.CapacityMin < 1 || c.Seed.CapacityMax < c.Seed.CapacityMin {
		return fmt.Errorf("invalid capacity range [%d, %d]", c.Seed.CapacityMin, c.Seed.CapacityMax)
	}
	if c.Seed.ImminentThreshold <= 0 {
		return fmt.Errorf("seed.imminent_threshold must be positive")
	}
	if c.Seed.DemoPassword == "" {
		return fmt.Errorf("seed.demo_password cannot be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}
