package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:4055", cfg.Server.Addr)
	assert.Equal(t, int64(4096), cfg.Server.BodyLimitBytes)
	assert.Len(t, cfg.Shards, 1)
	assert.Equal(t, DialectYugabyte, cfg.Dialect)
	assert.Equal(t,
		"host=localhost port=5433 user=yugabyte password=yugabyte dbname=yugabyte sslmode=disable",
		cfg.Shards[0].Primary.ConnectionString())
}

func TestConfig_ApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"HTTP_ADDR":             ":9000",
		"BODY_LIMIT_BYTES":      "8192",
		"CORS_ORIGIN":           "http://a.test, http://b.test",
		"QUERY_TIMEOUT":         "2s",
		"DB_DIALECT":            "Postgres",
		"DB_KEYSPACE":           "profiles",
		"DB_READ_FROM_REPLICAS": "true",
		"DB_MAX_OPEN_CONNS":     "25",
		"DATABASE_URLS":         "postgres://a/db,postgres://b/db",
		"DATABASE_REPLICA_URLS": "postgres://a1/db|postgres://a2/db,",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, int64(8192), cfg.Server.BodyLimitBytes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.Server.QueryTimeout)
	assert.Equal(t, DialectPostgres, cfg.Dialect)
	assert.Equal(t, "profiles", cfg.Keyspace)
	assert.True(t, cfg.ReadFromReplicas)
	assert.Equal(t, 25, cfg.Pool.MaxOpenConns)

	require.Len(t, cfg.Shards, 2)
	assert.Equal(t, 1, cfg.Shards[1].ShardID)
	assert.Equal(t, "postgres://b/db", cfg.Shards[1].Primary.ConnectionString())
	require.Len(t, cfg.Shards[0].Replicas, 2)
	assert.Equal(t, "postgres://a2/db", cfg.Shards[0].Replicas[1].URL)
	assert.Empty(t, cfg.Shards[1].Replicas)
}

func TestConfig_ApplyEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad body limit", map[string]string{"BODY_LIMIT_BYTES": "lots"}},
		{"bad timeout", map[string]string{"QUERY_TIMEOUT": "soon"}},
		{"bad replica flag", map[string]string{"DB_READ_FROM_REPLICAS": "maybe"}},
		{"too many replica groups", map[string]string{"DATABASE_REPLICA_URLS": "a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, cfg.applyEnv(mapLookup(tt.env)))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dialect = "cassandra"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Shards = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.BodyLimitBytes = 0
	assert.Error(t, cfg.Validate())
}
