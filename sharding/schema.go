package sharding

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/samandartukhtayev/user-profile-service/config"
)

// ProfileTable is the only table the service reads and writes
const ProfileTable = "user_profile"

// QualifiedTable returns the quoted keyspace.table name for the profile table
func QualifiedTable(keyspace string) string {
	return pq.QuoteIdentifier(keyspace) + "." + pq.QuoteIdentifier(ProfileTable)
}

// SchemaStatements returns the idempotent DDL for the given dialect.
// YugabyteDB gets an explicit hash-partitioned key with an ascending
// clustering column; plain PostgreSQL a regular composite key.
func SchemaStatements(keyspace, dialect string) []string {
	primaryKey := "PRIMARY KEY (user_id, time_uuid_order)"
	if dialect == config.DialectYugabyte {
		primaryKey = "PRIMARY KEY ((user_id) HASH, time_uuid_order ASC)"
	}

	return []string{
		"CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(keyspace),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			user_id UUID NOT NULL,
			time_uuid_order UUID NOT NULL,
			email_address TEXT NOT NULL,
			full_name TEXT NOT NULL,
			age SMALLINT NOT NULL,
			comment TEXT,
			%s
		)`, QualifiedTable(keyspace), primaryKey),
	}
}

// EnsureSchema creates the keyspace and profile table on every shard primary
func (sm *ShardManager) EnsureSchema(ctx context.Context, keyspace, dialect string) error {
	stmts := SchemaStatements(keyspace, dialect)

	g, gctx := errgroup.WithContext(ctx)
	for _, shard := range sm.GetAllShards() {
		g.Go(func() error {
			for _, stmt := range stmts {
				if _, err := shard.Primary.ExecContext(gctx, stmt); err != nil {
					return errors.Wrapf(err, "failed to create schema on shard %d", shard.ShardID)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
