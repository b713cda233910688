package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/samandartukhtayev/user-profile-service/models"
	"github.com/samandartukhtayev/user-profile-service/sharding"
)

// UserProfileRepository handles all profile database operations.
// Rows are routed to a shard by their partition key (user_id).
type UserProfileRepository struct {
	shardManager *sharding.ShardManager
	queries      *QueryBuilder
	queryTimeout time.Duration
}

// NewUserProfileRepository creates a repository over the profile table in
// keyspace. A zero queryTimeout leaves queries bounded only by ctx.
func NewUserProfileRepository(sm *sharding.ShardManager, keyspace string, queryTimeout time.Duration) *UserProfileRepository {
	return &UserProfileRepository{
		shardManager: sm,
		queries:      NewQueryBuilder(keyspace),
		queryTimeout: queryTimeout,
	}
}

func (r *UserProfileRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// Create inserts a new profile row on the primary of its shard
func (r *UserProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.shardManager.WriterDB(profile.UserID.String())
	stmt := r.queries.Insert(profile)

	if _, err := db.ExecContext(ctx, stmt.SQL, stmt.Args); err != nil {
		return errors.Wrap(err, "failed to create user profile")
	}
	return nil
}

// Find returns every row of the partition whose email matches, ordered by
// time_uuid_order. No match yields an empty, non-nil slice.
func (r *UserProfileRepository) Find(ctx context.Context, userID uuid.UUID, email string) ([]models.UserProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.shardManager.ReaderDB(userID.String())
	stmt := r.queries.Select(userID, email)

	rows, err := db.QueryContext(ctx, stmt.SQL, stmt.Args)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select user profile")
	}
	defer rows.Close()

	profiles := make([]models.UserProfile, 0)
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.UserID, &p.TimeUUIDOrder, &p.EmailAddress, &p.FullName, &p.Age, &p.Comment); err != nil {
			return nil, errors.Wrap(err, "failed to scan user profile")
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating user profile rows")
	}

	return profiles, nil
}

// Update changes age and full_name of one row. Like the store's own UPDATE,
// a key with no row is not an error.
func (r *UserProfileRepository) Update(ctx context.Context, userID, timeUUIDOrder uuid.UUID, age int8, fullName string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.shardManager.WriterDB(userID.String())
	stmt := r.queries.Update(userID, timeUUIDOrder, age, fullName)

	if _, err := db.ExecContext(ctx, stmt.SQL, stmt.Args); err != nil {
		return errors.Wrap(err, "failed to update user profile")
	}
	return nil
}

// Delete removes one row. Deleting an absent row is not an error.
func (r *UserProfileRepository) Delete(ctx context.Context, userID, timeUUIDOrder uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.shardManager.WriterDB(userID.String())
	stmt := r.queries.Delete(userID, timeUUIDOrder)

	if _, err := db.ExecContext(ctx, stmt.SQL, stmt.Args); err != nil {
		return errors.Wrap(err, "failed to delete user profile")
	}
	return nil
}
