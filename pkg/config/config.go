package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV = "CONFIG_FILE"
	dotenvFileENV = "DOTENV_FILE"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
}

// keys are the config keys that can be set, mapped to whether they're
// required. Env vars are matched against these after lowercasing.
var keys = map[string]bool{
	"database_busy_timeout":        false,
	"database_connect_retry_count": false,
	"database_connect_retry_delay": false,
	"database_debug":               false,
	"database_file_path":           true,
	"database_max_retries":         false,
	"server_host":                  false,
	"server_port":                  false,
}

func defaults() *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        5,
		ServerHost:                "0.0.0.0",
		ServerPort:                3689,
	}
}

// New loads the config from the defaults, then the yaml file named by
// CONFIG_FILE (if it exists), then the environment. Later sources win. A
// dotenv file (DOTENV_FILE, default ./.env) only fills in env vars that
// aren't already set.
func New() (*Config, error) {
	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = "./config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.WithStack(err)
	}

	dotenv := os.Getenv(dotenvFileENV)
	if dotenv == "" {
		dotenv = "./.env"
	}
	if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to load dotenv file %s", dotenv)
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := keys[key]; !ok {
			return ""
		}
		// An empty env var counts as unset.
		if os.Getenv(s) == "" {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	var missing []string
	for key, required := range keys {
		if required && !k.Exists(key) {
			missing = append(missing, key+" ("+strings.ToUpper(key)+")")
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// NewForTest returns the defaults with an in-memory database.
func NewForTest() *Config {
	cfg := defaults()
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryDelay = 10 * time.Millisecond
	return cfg
}
