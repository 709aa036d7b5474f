package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Server struct {
		Port            string        `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Database struct {
		URI            string        `mapstructure:"uri"`
		Name           string        `mapstructure:"name"`
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
		PingInterval   time.Duration `mapstructure:"ping_interval"`
		Migrate        bool          `mapstructure:"migrate"`
	} `mapstructure:"database"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var AppConfig Config

// envBindings maps config keys to the variable names the service has always used.
var envBindings = map[string]string{
	"server.port":              "PORT",
	"server.shutdown_timeout":  "SHUTDOWN_TIMEOUT",
	"database.uri":             "DB_URI",
	"database.name":            "DB_NAME",
	"database.connect_timeout": "DB_CONNECT_TIMEOUT",
	"database.ping_interval":   "DB_PING_INTERVAL",
	"database.migrate":         "DB_MIGRATE",
	"log.level":                "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fineaseDB")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.ping_interval", 15*time.Second)
	v.SetDefault("database.migrate", true)
	v.SetDefault("log.level", "info")
}

// LoadConfig reads the process environment into AppConfig. A .env file in
// path, when present, is loaded first without overriding variables that are
// already set.
func LoadConfig(path string) error {
	if err := gotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}

	AppConfig = cfg
	return nil
}
