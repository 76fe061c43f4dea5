// Package config holds the console's settings. Values come from defaults, an
// optional YAML file and LOGINHUB_* environment variables, in that order;
// command-line flags are applied last by the binaries.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LOGINHUB_"

// DefaultReservedIdentifiers are refused on the tenant login path.
var DefaultReservedIdentifiers = []string{"master@infra.local"}

// ServerConfig holds configuration for the web console.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // Listen address (default ":8080")
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
	DBPath    string `yaml:"db_path"`    // SQLite client storage (default ~/.loginhub/console.db)

	APIURL              string   `yaml:"api_url"`    // REST backend base URL
	MasterKey           string   `yaml:"master_key"` // empty disables master login
	ReservedIdentifiers []string `yaml:"reserved_identifiers"`

	SecureCookies   bool          `yaml:"secure_cookies"`
	TabIdleTTL      time.Duration `yaml:"tab_idle_ttl"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
	RedisURL        string        `yaml:"redis_url"` // optional tab storage
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:                ":8080",
		LogLevel:            "info",
		LogFormat:           "text",
		APIURL:              "http://localhost:3000",
		ReservedIdentifiers: append([]string(nil), DefaultReservedIdentifiers...),
		TabIdleTTL:          12 * time.Hour,
		JanitorInterval:     10 * time.Minute,
		RequestTimeout:      15 * time.Second,
	}
}

// LoadServer builds a ServerConfig from defaults, the YAML file at path (if
// non-empty) and the environment.
func LoadServer(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := loadFile(path, &cfg); err != nil {
		return cfg, err
	}

	cfg.Addr = getenv("ADDR", cfg.Addr)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)
	cfg.DBPath = getenv("DB_PATH", cfg.DBPath)
	cfg.APIURL = getenv("API_URL", cfg.APIURL)
	masterKey, err := getenvSecret("MASTER_KEY", cfg.MasterKey)
	if err != nil {
		return cfg, err
	}
	cfg.MasterKey = masterKey
	cfg.ReservedIdentifiers = getenvList("RESERVED_IDENTIFIERS", cfg.ReservedIdentifiers)
	cfg.SecureCookies = getenvBool("SECURE_COOKIES", cfg.SecureCookies)
	cfg.TabIdleTTL = getenvDuration("TAB_IDLE_TTL", cfg.TabIdleTTL)
	cfg.JanitorInterval = getenvDuration("JANITOR_INTERVAL", cfg.JanitorInterval)
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.RequestTimeout = getenvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	return cfg, nil
}

// ClientConfig holds configuration for the command-line client.
type ClientConfig struct {
	APIURL              string        `yaml:"api_url"`
	MasterKey           string        `yaml:"master_key"`
	ReservedIdentifiers []string      `yaml:"reserved_identifiers"`
	StateDir            string        `yaml:"state_dir"` // default ~/.loginhub
	LogLevel            string        `yaml:"log_level"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:              "http://localhost:3000",
		ReservedIdentifiers: append([]string(nil), DefaultReservedIdentifiers...),
		StateDir:            DefaultStateDir(),
		LogLevel:            "warn",
		RequestTimeout:      15 * time.Second,
	}
}

// LoadClient builds a ClientConfig from defaults, the YAML file at path (if
// non-empty, or <state dir>/config.yaml when it exists) and the environment.
func LoadClient(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path == "" {
		candidate := filepath.Join(getenv("STATE_DIR", cfg.StateDir), "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if err := loadFile(path, &cfg); err != nil {
		return cfg, err
	}

	cfg.APIURL = getenv("API_URL", cfg.APIURL)
	masterKey, err := getenvSecret("MASTER_KEY", cfg.MasterKey)
	if err != nil {
		return cfg, err
	}
	cfg.MasterKey = masterKey
	cfg.ReservedIdentifiers = getenvList("RESERVED_IDENTIFIERS", cfg.ReservedIdentifiers)
	cfg.StateDir = getenv("STATE_DIR", cfg.StateDir)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.RequestTimeout = getenvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	return cfg, nil
}

// DefaultStateDir returns ~/.loginhub, or .loginhub when the home directory
// is unknown.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loginhub"
	}
	return filepath.Join(home, ".loginhub")
}

func loadFile(path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return fallback
}

// getenvSecret also accepts KEY_FILE pointing at a file holding the value.
// A named file that cannot be read is an error, not an absent secret.
func getenvSecret(key, fallback string) (string, error) {
	if file := os.Getenv(EnvPrefix + key + "_FILE"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s%s_FILE: %w", EnvPrefix, key, err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return getenv(key, fallback), nil
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(EnvPrefix + key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
