package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig selects the store. URI and Name are used by the mongo driver,
// DSN by sqlite and postgres.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	DSN    string `mapstructure:"dsn"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether calendar snapshots can be stored.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// CalendarConfig controls how month grids are laid out.
type CalendarConfig struct {
	FirstWeekday string `mapstructure:"first_weekday"`
	Timezone     string `mapstructure:"timezone"`
}

// Weekday parses FirstWeekday ("monday", "sunday", ...).
func (c CalendarConfig) Weekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.FirstWeekday))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == name {
			return wd, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", c.FirstWeekday)
}

// Location resolves Timezone; "Local" and "" mean the process zone.
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// AdminConfig bootstraps a staff account at startup when both fields are set.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file next to the config file is loaded into the environment first;
// variables already set in the environment win.
func LoadConfig(path string) (config Config, err error) {
	envFile := filepath.Join(path, ".env")
	if err = godotenv.Load(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config, fmt.Errorf("error loading %s: %w", envFile, err)
		}
		err = nil
	} else {
		log.Printf("INFO: Loaded environment from %s", envFile)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Every key needs a default so Unmarshal picks up its env override.
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "runtracker")
	v.SetDefault("database.dsn", "runtracker.db")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("calendar.first_weekday", "monday")
	v.SetDefault("calendar.timezone", "Local")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	if _, err = config.Calendar.Weekday(); err != nil {
		return
	}
	if _, err = config.Calendar.Location(); err != nil {
		err = fmt.Errorf("invalid calendar timezone: %w", err)
		return
	}
	return config, nil
}
