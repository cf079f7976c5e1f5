package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/kanso-habits/internal/core/progress"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ServerConfig struct {
	Port          string        `yaml:"port"`
	RateLimit     int           `yaml:"rate_limit"`
	RateWindow    time.Duration `yaml:"rate_window"`
	JWTSecret     string        `yaml:"jwt_secret"`
	JWTIssuer     string        `yaml:"jwt_issuer"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// CalendarConfig holds the defaults used when a request does not say which
// timezone or locale it is rendered for.
type CalendarConfig struct {
	Timezone     string `yaml:"timezone"`
	Locale       string `yaml:"locale"`
	FirstWeekday string `yaml:"first_weekday"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Storage    string         `yaml:"storage"`
	SQLitePath string         `yaml:"sqlite_path"`
	DB         DBConfig       `yaml:"db"`
	Redis      RedisConfig    `yaml:"redis"`
	Server     ServerConfig   `yaml:"server"`
	Calendar   CalendarConfig `yaml:"calendar"`
	Log        LogConfig      `yaml:"log"`
}

func Default() *Config {
	return &Config{
		Storage:    StoragePostgres,
		SQLitePath: "habits.db",
		DB: DBConfig{
			Host: "localhost",
			Port: "5432",
			User: "kanso_user",
			Name: "kanso_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Server: ServerConfig{
			Port:          "8080",
			RateLimit:     100,
			RateWindow:    time.Minute,
			JWTIssuer:     "kanso-habits",
			TokenDuration: 24 * time.Hour,
		},
		Calendar: CalendarConfig{
			Timezone: "Local",
			Locale:   progress.DefaultLocale,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the optional YAML file at path, then the .env file in the working
// directory, then the environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()

	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("STORAGE", &cfg.Storage)
	setString("SQLITE_PATH", &cfg.SQLitePath)

	setString("DB_HOST", &cfg.DB.Host)
	setString("DB_PORT", &cfg.DB.Port)
	setString("DB_USER", &cfg.DB.User)
	setString("DB_PASSWORD", &cfg.DB.Password)
	setString("DB_NAME", &cfg.DB.Name)

	setString("REDIS_HOST", &cfg.Redis.Host)
	setString("REDIS_PORT", &cfg.Redis.Port)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = b
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}

	setString("PORT", &cfg.Server.Port)
	setString("JWT_SECRET", &cfg.Server.JWTSecret)

	setString("TIMEZONE", &cfg.Calendar.Timezone)
	setString("LOCALE", &cfg.Calendar.Locale)
	setString("FIRST_WEEKDAY", &cfg.Calendar.FirstWeekday)

	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, _, err := c.Weekday(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured default timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" || c.Calendar.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// Weekday resolves the configured first day of the week. The boolean is false
// when nothing is configured and the day was derived from the locale.
func (c *Config) Weekday() (time.Weekday, bool, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Calendar.FirstWeekday))
	if raw == "" {
		return progress.FirstWeekdayForLocale(c.Calendar.Locale), false, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if raw == name || raw == name[:3] {
			return d, true, nil
		}
	}
	return time.Sunday, false, fmt.Errorf("config: invalid first weekday %q", c.Calendar.FirstWeekday)
}
