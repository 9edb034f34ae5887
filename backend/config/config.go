package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Minio      MinioConfig      `yaml:"minio"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
	Store      StoreConfig      `yaml:"store"`
	Onboarding OnboardingConfig `yaml:"onboarding"`
	Users      []User           `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// RateLimit is requests per minute per client IP, 0 disables the limiter.
	RateLimit int `yaml:"rate_limit"`
}

// MinioConfig configures the object store backing drafts, session flags and
// uploaded documents. When Enabled is false everything stays in memory.
type MinioConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
	// PublicLinks serves document links without signing, for buckets with
	// an anonymous read policy.
	PublicLinks bool `yaml:"public_links"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StoreConfig struct {
	// MaxWorkspaces caps live per-user workspaces, 0 = unlimited
	MaxWorkspaces int `yaml:"max_workspaces"`
	// MaxNotifications caps each user's pending notification queue
	MaxNotifications int `yaml:"max_notifications"`
}

type OnboardingConfig struct {
	PaymentDelay          time.Duration `yaml:"payment_delay"`
	ResetDelay            time.Duration `yaml:"reset_delay"`
	EnforceStepValidation bool          `yaml:"enforce_step_validation"`
}

// User is an optional demo account. With no users configured any
// non-empty email and password signs in.
type User struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Minio.ExpireDays == 0 {
		c.Minio.ExpireDays = 7
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = "change-me"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Store.MaxWorkspaces == 0 {
		c.Store.MaxWorkspaces = 100
	}
	if c.Store.MaxNotifications == 0 {
		c.Store.MaxNotifications = 50
	}
	if c.Onboarding.PaymentDelay == 0 {
		c.Onboarding.PaymentDelay = 2 * time.Second
	}
	if c.Onboarding.ResetDelay == 0 {
		c.Onboarding.ResetDelay = 2 * time.Second
	}
}

// FindUser finds a demo user by email
func (c *Config) FindUser(email string) *User {
	for i := range c.Users {
		if c.Users[i].Email == email {
			return &c.Users[i]
		}
	}
	return nil
}
