package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingSetting is returned by Load when a mandatory setting is absent.
var ErrMissingSetting = errors.New("missing required setting")

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StatsDisabled turns the periodic stats reporter off when used as STATS_SCHEDULE.
const StatsDisabled = "off"

// Config holds the application configuration.
type Config struct {
	ServerPort int

	DatabaseDriver   string
	DatabaseHost     string
	DatabasePort     int
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string
	DatabasePath     string // SQLite file, only used by the sqlite driver

	JWTSecret string
	JWTTTL    time.Duration

	// TestToken is accepted in place of a signed token only when AllowTestToken is set.
	AllowTestToken bool
	TestToken      string

	CORSOrigins []string

	LogLevel  string
	LogPretty bool

	StatsSchedule string

	RedisAddr   string
	RedisStream string
}

// Load reads configuration from environment variables, applies defaults for
// non-sensitive settings and fails when a secret is missing.
func Load() (*Config, error) {
	cfg := read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for commands that only touch the database. Server
// settings such as JWT_SECRET are not required.
func LoadDatabase() (*Config, error) {
	cfg := read()
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		ServerPort:       v.GetInt("PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseHost:     v.GetString("DB_HOST"),
		DatabasePort:     v.GetInt("DB_PORT"),
		DatabaseUser:     v.GetString("DB_USER"),
		DatabasePassword: v.GetString("DB_PASSWORD"),
		DatabaseName:     v.GetString("DB_NAME"),
		DatabaseSSLMode:  v.GetString("DB_SSLMODE"),
		DatabasePath:     v.GetString("DB_PATH"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		AllowTestToken:   v.GetBool("ALLOW_TEST_TOKEN"),
		TestToken:        v.GetString("TEST_TOKEN"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogPretty:        v.GetBool("LOG_PRETTY"),
		StatsSchedule:    strings.TrimSpace(v.GetString("STATS_SCHEDULE")),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisStream:      v.GetString("REDIS_STREAM"),
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 5000)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "./social.db")
	v.SetDefault("JWT_TTL", time.Hour)
	v.SetDefault("ALLOW_TEST_TOKEN", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("STATS_SCHEDULE", "@every 5m")
	v.SetDefault("REDIS_STREAM", "social:events")
}

// Validate checks that every mandatory setting is present and sane.
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid PORT %d", c.ServerPort)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("invalid JWT_TTL %s", c.JWTTTL)
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.AllowTestToken && c.TestToken == "" {
		return fmt.Errorf("%w: TEST_TOKEN (ALLOW_TEST_TOKEN is set)", ErrMissingSetting)
	}
	return nil
}

// ValidateDatabase checks the settings needed to open the database.
func (c *Config) ValidateDatabase() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		for name, value := range map[string]string{
			"DB_USER":     c.DatabaseUser,
			"DB_PASSWORD": c.DatabasePassword,
			"DB_NAME":     c.DatabaseName,
		} {
			if value == "" {
				return fmt.Errorf("%w: %s", ErrMissingSetting, name)
			}
		}
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: DB_PATH", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseDriver == DriverSQLite {
		return "file:" + c.DatabasePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:     c.DatabaseHost + ":" + strconv.Itoa(c.DatabasePort),
		Path:     "/" + c.DatabaseName,
		RawQuery: url.Values{"sslmode": []string{c.DatabaseSSLMode}}.Encode(),
	}
	return u.String()
}

// TestTokenEnabled reports whether the override bearer token is active.
func (c *Config) TestTokenEnabled() bool {
	return c.AllowTestToken && c.TestToken != ""
}

// StatsEnabled reports whether the periodic stats reporter should run.
func (c *Config) StatsEnabled() bool {
	return c.StatsSchedule != "" && !strings.EqualFold(c.StatsSchedule, StatsDisabled)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
