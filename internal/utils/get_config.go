package utils

import (
	"Fridge-Keeper/domain"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

const (
	defaultAppPort        = "8080"
	defaultTimezone       = "Asia/Seoul"
	defaultVAPIDSubject   = "mailto:admin@refrigerator-pwa.com"
	defaultPushTTL        = 24 * 60 * 60
	defaultNotifyOffset   = 9
	defaultNotifyInterval = "24h"
	defaultCORSOrigins    = "*"
)

// Config is read from config.yaml and then overridden by any environment
// variable of the same name.
type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER" env:"DB_USER"`
	DBName     string `yaml:"DB_NAME" env:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT" env:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST" env:"DB_HOST"`
	DBTimezone string `yaml:"DB_TIMEZONE" env:"DB_TIMEZONE"`

	// HTTP server
	AppPort     string `yaml:"APP_PORT" env:"APP_PORT"`
	AppTimezone string `yaml:"APP_TIMEZONE" env:"APP_TIMEZONE"`
	CORSOrigins string `yaml:"CORS_ORIGINS" env:"CORS_ORIGINS"`

	// Web push
	VAPIDPublicKey  string `yaml:"VAPID_PUBLIC_KEY" env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `yaml:"VAPID_PRIVATE_KEY" env:"VAPID_PRIVATE_KEY"`
	VAPIDSubject    string `yaml:"VAPID_SUBJECT" env:"VAPID_SUBJECT"`
	PushTTL         int    `yaml:"PUSH_TTL" env:"PUSH_TTL"`

	// Batch notifications
	NotifyTZOffsetHours *int   `yaml:"NOTIFY_TZ_OFFSET_HOURS" env:"NOTIFY_TZ_OFFSET_HOURS"`
	NotifyInterval      string `yaml:"NOTIFY_INTERVAL" env:"NOTIFY_INTERVAL"`
	TriggerSecret       string `yaml:"TRIGGER_SECRET" env:"TRIGGER_SECRET"`
}

var config Config

func LoadConfig() {
	cfg, err := ReadConfig("config.yaml")
	if err != nil {
		log.Printf("Error loading config: %s\n", err)
	}
	config = cfg
}

// ReadConfig decodes path when it exists, overlays the environment and fills
// defaults. A missing file is not an error.
func ReadConfig(path string) (Config, error) {
	var cfg Config

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return applyDefaults(cfg), fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return applyDefaults(cfg), fmt.Errorf("read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return applyDefaults(cfg), fmt.Errorf("parse env: %w", err)
	}
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	if cfg.AppPort == "" {
		cfg.AppPort = defaultAppPort
	}
	if cfg.AppTimezone == "" {
		cfg.AppTimezone = defaultTimezone
	}
	if cfg.DBTimezone == "" {
		cfg.DBTimezone = cfg.AppTimezone
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = defaultCORSOrigins
	}
	if cfg.VAPIDSubject == "" {
		cfg.VAPIDSubject = defaultVAPIDSubject
	}
	if cfg.PushTTL <= 0 {
		cfg.PushTTL = defaultPushTTL
	}
	if cfg.NotifyTZOffsetHours == nil {
		offset := defaultNotifyOffset
		cfg.NotifyTZOffsetHours = &offset
	}
	if cfg.NotifyInterval == "" {
		cfg.NotifyInterval = defaultNotifyInterval
	}
	return cfg
}

// Validate fails when the server cannot sign push messages.
func (c Config) Validate() error {
	if c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "" {
		return domain.ErrMissingVAPIDKeys
	}
	if _, err := c.NotifyEvery(); err != nil {
		return err
	}
	if off := c.NotifyOffset(); off < -12 || off > 14 {
		return fmt.Errorf("NOTIFY_TZ_OFFSET_HOURS out of range: %d", off)
	}
	return nil
}

func (c Config) NotifyOffset() int {
	if c.NotifyTZOffsetHours == nil {
		return defaultNotifyOffset
	}
	return *c.NotifyTZOffsetHours
}

// NotifyEvery returns the batch scan interval. Zero disables the in-process
// scheduler.
func (c Config) NotifyEvery() (time.Duration, error) {
	if c.NotifyInterval == "0" || c.NotifyInterval == "off" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.NotifyInterval)
	if err != nil {
		return 0, fmt.Errorf("NOTIFY_INTERVAL: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("NOTIFY_INTERVAL must not be negative: %s", c.NotifyInterval)
	}
	return d, nil
}

func GetAppConfig() Config {
	return config
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_TIMEZONE":
		return config.DBTimezone
	case "APP_PORT":
		return config.AppPort
	case "APP_TIMEZONE":
		return config.AppTimezone
	case "CORS_ORIGINS":
		return config.CORSOrigins
	case "VAPID_PUBLIC_KEY":
		return config.VAPIDPublicKey
	case "VAPID_PRIVATE_KEY":
		return config.VAPIDPrivateKey
	case "VAPID_SUBJECT":
		return config.VAPIDSubject
	case "PUSH_TTL":
		return strconv.Itoa(config.PushTTL)
	case "NOTIFY_TZ_OFFSET_HOURS":
		return strconv.Itoa(config.NotifyOffset())
	case "NOTIFY_INTERVAL":
		return config.NotifyInterval
	case "TRIGGER_SECRET":
		return config.TriggerSecret
	default:
		return ""
	}
}
