package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/micro-ha/nocontact/internal/logging"
	"github.com/micro-ha/nocontact/internal/model"
)

const (
	defaultHTTPAddr            = ":8099"
	defaultDBDriver            = "sqlite"
	defaultDBPath              = "/data/nocontact.db"
	defaultFrontendDist        = "/app/frontend/dist"
	defaultUserID              = "local"
	defaultStatusSweepInterval = time.Minute
	defaultMQTTTopic           = "nocontact/activity"
	defaultMQTTClientID        = "nocontact-server"
)

// Config stores runtime settings loaded from an optional TOML file and
// environment variables. Environment values win.
type Config struct {
	HTTPAddr            string
	DBDriver            string
	DBPath              string
	DBDSN               string
	FrontendDist        string
	LogLevel            slog.Level
	DefaultUserID       string
	StatusSweepInterval time.Duration
	MQTT                MQTTConfig
	Backend             model.BackendConfig
}

// MQTTConfig configures the optional activity subscriber.
type MQTTConfig struct {
	Broker   string `toml:"broker"`
	Topic    string `toml:"topic"`
	ClientID string `toml:"client_id"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	QoS      int    `toml:"qos"`
}

// Enabled reports whether a broker is configured.
func (c MQTTConfig) Enabled() bool {
	return strings.TrimSpace(c.Broker) != ""
}

type fileConfig struct {
	HTTPAddr            string              `toml:"http_addr"`
	FrontendDist        string              `toml:"frontend_dist"`
	LogLevel            string              `toml:"log_level"`
	DefaultUserID       string              `toml:"default_user_id"`
	StatusSweepInterval string              `toml:"status_sweep_interval"`
	Database            fileDatabase        `toml:"database"`
	MQTT                MQTTConfig          `toml:"mqtt"`
	Backend             model.BackendConfig `toml:"backend"`
}

type fileDatabase struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	DSN    string `toml:"dsn"`
}

// Load builds Config from CONFIG_FILE (when set) and environment variables
// using stable defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:            defaultHTTPAddr,
		DBDriver:            defaultDBDriver,
		DBPath:              defaultDBPath,
		FrontendDist:        defaultFrontendDist,
		LogLevel:            slog.LevelInfo,
		DefaultUserID:       defaultUserID,
		StatusSweepInterval: defaultStatusSweepInterval,
		MQTT: MQTTConfig{
			Topic:    defaultMQTTTopic,
			ClientID: defaultMQTTClientID,
			QoS:      1,
		},
	}

	if path := getenv("CONFIG_FILE", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBDriver = getenv("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = getenv("DB_PATH", cfg.DBPath)
	cfg.DBDSN = getenv("DB_DSN", cfg.DBDSN)
	cfg.FrontendDist = getenv("FRONTEND_DIST", cfg.FrontendDist)
	if raw, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = logging.ParseLevel(raw)
	}
	cfg.DefaultUserID = getenv("DEFAULT_USER_ID", cfg.DefaultUserID)
	cfg.StatusSweepInterval = parseDuration("STATUS_SWEEP_INTERVAL", cfg.StatusSweepInterval)

	cfg.MQTT.Broker = getenv("MQTT_BROKER", cfg.MQTT.Broker)
	cfg.MQTT.Topic = getenv("MQTT_TOPIC", cfg.MQTT.Topic)
	cfg.MQTT.ClientID = getenv("MQTT_CLIENT_ID", cfg.MQTT.ClientID)
	cfg.MQTT.Username = getenv("MQTT_USERNAME", cfg.MQTT.Username)
	cfg.MQTT.Password = getenv("MQTT_PASSWORD", cfg.MQTT.Password)
	cfg.MQTT.QoS = parseInt("MQTT_QOS", cfg.MQTT.QoS)
	if cfg.MQTT.QoS < 0 || cfg.MQTT.QoS > 2 {
		cfg.MQTT.QoS = 1
	}

	cfg.Backend.URL = getenv("BACKEND_URL", cfg.Backend.URL)
	cfg.Backend.APIKey = getenv("BACKEND_API_KEY", cfg.Backend.APIKey)
	cfg.Backend.RPC = getenv("BACKEND_RPC", cfg.Backend.RPC)
	if d := parseDuration("ACTIVITY_SYNC_INTERVAL", 0); d > 0 {
		cfg.Backend.SyncIntervalSec = int(d / time.Second)
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var file fileConfig
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	c.HTTPAddr = firstNonEmpty(file.HTTPAddr, c.HTTPAddr)
	c.FrontendDist = firstNonEmpty(file.FrontendDist, c.FrontendDist)
	if strings.TrimSpace(file.LogLevel) != "" {
		c.LogLevel = logging.ParseLevel(file.LogLevel)
	}
	c.DefaultUserID = firstNonEmpty(file.DefaultUserID, c.DefaultUserID)
	if raw := strings.TrimSpace(file.StatusSweepInterval); raw != "" {
		value, err := time.ParseDuration(raw)
		if err != nil || value <= 0 {
			return fmt.Errorf("config file %s: invalid status_sweep_interval %q", path, raw)
		}
		c.StatusSweepInterval = value
	}
	c.DBDriver = firstNonEmpty(file.Database.Driver, c.DBDriver)
	c.DBPath = firstNonEmpty(file.Database.Path, c.DBPath)
	c.DBDSN = firstNonEmpty(file.Database.DSN, c.DBDSN)

	c.MQTT.Broker = firstNonEmpty(file.MQTT.Broker, c.MQTT.Broker)
	c.MQTT.Topic = firstNonEmpty(file.MQTT.Topic, c.MQTT.Topic)
	c.MQTT.ClientID = firstNonEmpty(file.MQTT.ClientID, c.MQTT.ClientID)
	c.MQTT.Username = firstNonEmpty(file.MQTT.Username, c.MQTT.Username)
	c.MQTT.Password = firstNonEmpty(file.MQTT.Password, c.MQTT.Password)
	if file.MQTT.QoS > 0 {
		c.MQTT.QoS = file.MQTT.QoS
	}

	c.Backend.URL = firstNonEmpty(file.Backend.URL, c.Backend.URL)
	c.Backend.APIKey = firstNonEmpty(file.Backend.APIKey, c.Backend.APIKey)
	c.Backend.RPC = firstNonEmpty(file.Backend.RPC, c.Backend.RPC)
	if file.Backend.SyncIntervalSec > 0 {
		c.Backend.SyncIntervalSec = file.Backend.SyncIntervalSec
	}
	return nil
}

// IsSQLite reports whether the embedded database is used.
func (c Config) IsSQLite() bool {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case "postgres", "postgresql", "pg":
		return false
	default:
		return true
	}
}

// DSN returns the connection string handed to the SQL driver.
func (c Config) DSN() string {
	if c.DBDSN != "" || !c.IsSQLite() {
		return c.DBDSN
	}
	return c.DBPath
}

// DBDir returns the target directory for DBPath.
func (c Config) DBDir() string {
	return filepath.Dir(c.DBPath)
}

// LockPath is the single-instance lock file kept next to the SQLite database.
func (c Config) LockPath() string {
	return c.DBPath + ".lock"
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func getenv(key string, fallback string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := lookup(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseInt(key string, fallback int) int {
	raw, ok := lookup(key)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
