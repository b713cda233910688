package sharding

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/samandartukhtayev/user-profile-service/config"
)

const pingTimeout = 8 * time.Second

// ShardManager manages database shards and their replicas.
// Each shard owns a connection pool per database; requests check out a
// connection from the pool for the duration of one query.
type ShardManager struct {
	shards           []*Shard
	numShards        int
	readFromReplicas bool
	mu               sync.RWMutex
}

// Shard represents a single database shard with primary and replica connections
type Shard struct {
	ShardID  int
	Primary  *sql.DB
	Replicas []*sql.DB
}

// NewShardManager opens and pings every configured database concurrently.
// On failure all pools opened so far are closed.
func NewShardManager(ctx context.Context, cfg *config.Config) (*ShardManager, error) {
	shards := make([]*Shard, len(cfg.Shards))
	for i, shardCfg := range cfg.Shards {
		shards[i] = &Shard{
			ShardID:  shardCfg.ShardID,
			Replicas: make([]*sql.DB, len(shardCfg.Replicas)),
		}
	}
	sm := newShardManager(shards, cfg.ReadFromReplicas)

	g, gctx := errgroup.WithContext(ctx)
	for i, shardCfg := range cfg.Shards {
		shard := shards[i]
		primaryCfg := shardCfg.Primary
		g.Go(func() error {
			db, err := openDB(gctx, primaryCfg, cfg.Pool)
			if err != nil {
				return errors.Wrapf(err, "primary for shard %d", shard.ShardID)
			}
			shard.Primary = db
			return nil
		})

		for j, replicaCfg := range shardCfg.Replicas {
			g.Go(func() error {
				db, err := openDB(gctx, replicaCfg, cfg.Pool)
				if err != nil {
					return errors.Wrapf(err, "replica %d for shard %d", j, shard.ShardID)
				}
				shard.Replicas[j] = db
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		_ = sm.Close()
		return nil, err
	}
	return sm, nil
}

func newShardManager(shards []*Shard, readFromReplicas bool) *ShardManager {
	return &ShardManager{
		shards:           shards,
		numShards:        len(shards),
		readFromReplicas: readFromReplicas,
	}
}

func openDB(ctx context.Context, dbCfg config.DatabaseConfig, pool config.PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbCfg.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

// GetShardID maps a partition key to a shard using FNV-1a modulo the shard
// count. The same key always lands on the same shard.
func (sm *ShardManager) GetShardID(shardKey string) int {
	h := fnv.New32a()
	h.Write([]byte(shardKey))
	return int(h.Sum32() % uint32(sm.numShards))
}

// WriterDB returns the primary database for a given shard key.
// All write operations should use this.
func (sm *ShardManager) WriterDB(shardKey string) *sql.DB {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.shards[sm.GetShardID(shardKey)].Primary
}

// ReaderDB returns a random replica of the owning shard when replica reads
// are enabled and the shard has replicas, the primary otherwise.
func (sm *ShardManager) ReaderDB(shardKey string) *sql.DB {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	shard := sm.shards[sm.GetShardID(shardKey)]
	if !sm.readFromReplicas || len(shard.Replicas) == 0 {
		return shard.Primary
	}
	return shard.Replicas[rand.Intn(len(shard.Replicas))]
}

// GetAllShards returns a copy of the shard list
func (sm *ShardManager) GetAllShards() []*Shard {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	shardsCopy := make([]*Shard, len(sm.shards))
	copy(shardsCopy, sm.shards)
	return shardsCopy
}

// NumShards returns the total number of shards
func (sm *ShardManager) NumShards() int {
	return sm.numShards
}

// Close closes all database connections
func (sm *ShardManager) Close() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var errs []error
	for _, shard := range sm.shards {
		if shard.Primary != nil {
			if err := shard.Primary.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close primary for shard %d: %w", shard.ShardID, err))
			}
		}
		for i, replica := range shard.Replicas {
			if replica == nil {
				continue
			}
			if err := replica.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close replica %d for shard %d: %w", i, shard.ShardID, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing connections: %v", errs)
	}
	return nil
}
