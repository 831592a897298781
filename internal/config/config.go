package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/emrgen/pagebuilder/internal/compress"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type DbConfig struct {
	Driver     string
	URL        string
	SqlitePath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

type Config struct {
	Db    DbConfig
	Redis RedisConfig
	Kafka KafkaConfig

	GrpcPort string
	HttpPort string
	// AuthToken enables bearer token checks on every rpc when set.
	AuthToken string

	SnapshotCompression    string
	StoreTimeout           time.Duration
	RestoreSnapshotCurrent bool

	VersionRetention int
	PruneSchedule    string
	RepairSchedule   string

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", DriverSqlite)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "./.tmp/pagebuilder.db")
	v.SetDefault("GRPC_PORT", "4020")
	v.SetDefault("HTTP_PORT", "4021")
	v.SetDefault("AUTH_TOKEN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "10m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "page-events")
	v.SetDefault("SNAPSHOT_COMPRESSION", compress.NameGZip)
	v.SetDefault("STORE_TIMEOUT", "10s")
	v.SetDefault("RESTORE_SNAPSHOT_CURRENT", true)
	v.SetDefault("VERSION_RETENTION", 0)
	v.SetDefault("PRUNE_SCHEDULE", "@every 1h")
	v.SetDefault("REPAIR_SCHEDULE", "@every 10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// LoadConfig reads the configuration from the environment. Values in a .env file
// in the working directory are loaded first and never override real variables.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	cnf, err := Load(viper.New())
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	return cnf
}

// Load builds the configuration from v, reading unset keys from the environment.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	storeTimeout, err := time.ParseDuration(v.GetString("STORE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}
	redisTTL, err := time.ParseDuration(v.GetString("REDIS_TTL"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_TTL: %w", err)
	}

	cnf := &Config{
		Db: DbConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			URL:        v.GetString("DATABASE_URL"),
			SqlitePath: v.GetString("SQLITE_PATH"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      redisTTL,
		},
		Kafka: KafkaConfig{
			Brokers: v.GetString("KAFKA_BROKERS"),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		GrpcPort:               v.GetString("GRPC_PORT"),
		HttpPort:               v.GetString("HTTP_PORT"),
		AuthToken:              v.GetString("AUTH_TOKEN"),
		SnapshotCompression:    strings.ToLower(v.GetString("SNAPSHOT_COMPRESSION")),
		StoreTimeout:           storeTimeout,
		RestoreSnapshotCurrent: v.GetBool("RESTORE_SNAPSHOT_CURRENT"),
		VersionRetention:       v.GetInt("VERSION_RETENTION"),
		PruneSchedule:          v.GetString("PRUNE_SCHEDULE"),
		RepairSchedule:         v.GetString("REPAIR_SCHEDULE"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFormat:              strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return cnf, nil
}

func (c *Config) Validate() error {
	switch c.Db.Driver {
	case DriverPostgres:
		if c.Db.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverSqlite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Db.Driver)
	}

	if _, err := compress.ForName(c.SnapshotCompression); err != nil {
		return fmt.Errorf("SNAPSHOT_COMPRESSION: %w", err)
	}
	if c.VersionRetention < 0 {
		return fmt.Errorf("VERSION_RETENTION must not be negative")
	}

	return nil
}

// Compression returns the codec for new version snapshots.
func (c *Config) Compression() compress.Compress {
	codec, err := compress.ForName(c.SnapshotCompression)
	if err != nil {
		return compress.NewNop()
	}

	return codec
}

// SetupLogging applies the log level and format.
func SetupLogging(cnf *Config) {
	level, err := logrus.ParseLevel(cnf.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cnf.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cnf.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
