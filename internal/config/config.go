package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	cfg *Config
	mu  sync.RWMutex
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite3
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"` // sqlite3 database file
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenDuration   time.Duration `mapstructure:"token_duration"`
	RefreshDuration time.Duration `mapstructure:"refresh_duration"`
}

// Load reads configuration from the given file (optional), environment
// variables with the EPOCH_ prefix, and built-in defaults, in that order of
// increasing precedence for env vars. It also installs a watch that reloads
// the file on change.
func Load(path string) error {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("EPOCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Viper reports a missing file differently per branch: a search-path
		// miss is a ConfigFileNotFoundError, an explicit path comes back as a
		// bare *fs.PathError. Either way env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return err
	}

	mu.Lock()
	cfg = c
	mu.Unlock()

	v.OnConfigChange(func(e fsnotify.Event) {
		reloaded := &Config{}
		if err := v.Unmarshal(reloaded); err != nil {
			log.Printf("Config reload failed for %s: %v", e.Name, err)
			return
		}
		if err := reloaded.Validate(); err != nil {
			log.Printf("Config reload rejected for %s: %v", e.Name, err)
			return
		}
		mu.Lock()
		cfg = reloaded
		mu.Unlock()
		log.Printf("Configuration reloaded from %s", e.Name)
	})
	v.WatchConfig()

	return nil
}

// Get returns the currently loaded configuration, or nil before Load.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Validate enforces the startup-fatal constraints: the store must be fully
// identified and production must not run with a placeholder JWT secret.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("database host, name and user are required for the postgres driver")
		}
	case "sqlite3":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite3 driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.IsProduction() {
		if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("auth jwt_secret must be set in production")
		}
	}

	if c.Auth.TokenDuration <= 0 || c.Auth.RefreshDuration <= 0 {
		return fmt.Errorf("auth token durations must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.App.Env)
	return env == "production" || env == "prod"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

const defaultJWTSecret = "dev-secret-change-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "epoch")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "epoch.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.token_duration", 24*time.Hour)
	v.SetDefault("auth.refresh_duration", 7*24*time.Hour)
}
