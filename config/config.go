package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Supported SQL dialects for schema creation
const (
	DialectYugabyte = "yugabyte"
	DialectPostgres = "postgres"
)

// ShardConfig represents configuration for a single shard
type ShardConfig struct {
	ShardID  int
	Primary  DatabaseConfig
	Replicas []DatabaseConfig
}

// DatabaseConfig represents a single database connection configuration.
// When URL is set it takes precedence over the discrete fields.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// PoolConfig sizes the connection pool opened for every database
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds the HTTP surface settings
type ServerConfig struct {
	Addr           string
	BodyLimitBytes int64
	CORSOrigins    []string
	QueryTimeout   time.Duration
}

// Config holds the complete application configuration
type Config struct {
	Server           ServerConfig
	Shards           []ShardConfig
	Pool             PoolConfig
	Keyspace         string
	Dialect          string
	ReadFromReplicas bool
	LogLevel         string
}

// ConnectionString returns a PostgreSQL connection string
func (dc *DatabaseConfig) ConnectionString() string {
	if dc.URL != "" {
		return dc.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dc.Host, dc.Port, dc.User, dc.Password, dc.DBName,
	)
}

// DefaultBodyLimitBytes is the request body ceiling used when
// BODY_LIMIT_BYTES is unset
const DefaultBodyLimitBytes int64 = 4096

// DefaultConfig returns a single-shard configuration pointing at a local
// YugabyteDB YSQL endpoint.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:4055",
			BodyLimitBytes: DefaultBodyLimitBytes,
		},
		Shards: []ShardConfig{
			{
				ShardID: 0,
				Primary: DatabaseConfig{
					Host:     "localhost",
					Port:     5433,
					User:     "yugabyte",
					Password: "yugabyte",
					DBName:   "yugabyte",
				},
			},
		},
		Pool: PoolConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Keyspace: "demo_service_keyspace",
		Dialect:  DialectYugabyte,
		LogLevel: "info",
	}
}

// Load reads an optional .env file and applies environment overrides on top
// of DefaultConfig.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, errors.Wrapf(err, "failed to load %s", f)
			}
		}
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup("HTTP_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("BODY_LIMIT_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid BODY_LIMIT_BYTES")
		}
		c.Server.BodyLimitBytes = n
	}
	if v, ok := lookup("CORS_ORIGIN"); ok {
		c.Server.CORSOrigins = splitList(v, ",")
	}
	if v, ok := lookup("QUERY_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "invalid QUERY_TIMEOUT")
		}
		c.Server.QueryTimeout = d
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("DB_KEYSPACE"); ok && v != "" {
		c.Keyspace = v
	}
	if v, ok := lookup("DB_DIALECT"); ok && v != "" {
		c.Dialect = strings.ToLower(v)
	}
	if v, ok := lookup("DB_READ_FROM_REPLICAS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "invalid DB_READ_FROM_REPLICAS")
		}
		c.ReadFromReplicas = b
	}
	if v, ok := lookup("DB_MAX_OPEN_CONNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid DB_MAX_OPEN_CONNS")
		}
		c.Pool.MaxOpenConns = n
	}
	if v, ok := lookup("DB_MAX_IDLE_CONNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid DB_MAX_IDLE_CONNS")
		}
		c.Pool.MaxIdleConns = n
	}
	if v, ok := lookup("DB_CONN_MAX_LIFETIME"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "invalid DB_CONN_MAX_LIFETIME")
		}
		c.Pool.ConnMaxLifetime = d
	}

	// DATABASE_URLS replaces the default shard layout, one primary per shard.
	if v, ok := lookup("DATABASE_URLS"); ok && v != "" {
		primaries := splitList(v, ",")
		shards := make([]ShardConfig, len(primaries))
		for i, dsn := range primaries {
			shards[i] = ShardConfig{ShardID: i, Primary: DatabaseConfig{URL: dsn}}
		}
		c.Shards = shards
	}
	if v, ok := lookup("DATABASE_REPLICA_URLS"); ok && v != "" {
		perShard := strings.Split(v, ",")
		if len(perShard) > len(c.Shards) {
			return fmt.Errorf("DATABASE_REPLICA_URLS lists %d shards, only %d configured", len(perShard), len(c.Shards))
		}
		for i, group := range perShard {
			for _, dsn := range splitList(group, "|") {
				c.Shards[i].Replicas = append(c.Shards[i].Replicas, DatabaseConfig{URL: dsn})
			}
		}
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if len(c.Shards) == 0 {
		return errors.New("at least one shard must be configured")
	}
	if c.Dialect != DialectYugabyte && c.Dialect != DialectPostgres {
		return fmt.Errorf("unsupported DB_DIALECT %q", c.Dialect)
	}
	if c.Keyspace == "" {
		return errors.New("DB_KEYSPACE must not be empty")
	}
	if c.Server.BodyLimitBytes <= 0 {
		return errors.New("BODY_LIMIT_BYTES must be positive")
	}
	return nil
}

func splitList(v, sep string) []string {
	var out []string
	for _, p := range strings.Split(v, sep) {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
