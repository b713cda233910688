package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samandartukhtayev/user-profile-service/config"
	"github.com/samandartukhtayev/user-profile-service/idgen"
	"github.com/samandartukhtayev/user-profile-service/models"
	"github.com/samandartukhtayev/user-profile-service/sharding"
)

const testKeyspace = "profile_repository_test"

// setupTestRepository connects to PROFILE_TEST_DATABASE_URL, which may be a
// YugabyteDB YSQL or PostgreSQL endpoint. Tests are skipped without it;
// docker-compose.yml starts either one.
func setupTestRepository(t *testing.T) (*UserProfileRepository, func()) {
	dsn := os.Getenv("PROFILE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PROFILE_TEST_DATABASE_URL not set")
	}

	cfg := config.DefaultConfig()
	cfg.Dialect = config.DialectPostgres
	if d := os.Getenv("PROFILE_TEST_DIALECT"); d != "" {
		cfg.Dialect = d
	}
	cfg.Keyspace = testKeyspace
	cfg.Shards = []config.ShardConfig{{ShardID: 0, Primary: config.DatabaseConfig{URL: dsn}}}

	ctx := context.Background()
	sm, err := sharding.NewShardManager(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, sm.EnsureSchema(ctx, cfg.Keyspace, cfg.Dialect))

	return NewUserProfileRepository(sm, cfg.Keyspace, 0), func() { sm.Close() }
}

func newTestProfile(email string) *models.UserProfile {
	return models.NewUserProfile(idgen.NewUserID(), idgen.NewOrderID(), email, "A B", 30)
}

func TestUserProfileRepository_CreateAndFind(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx := context.Background()
	profile := newTestProfile("a@x.com")

	require.NoError(t, repo.Create(ctx, profile))
	defer repo.Delete(ctx, profile.UserID, profile.TimeUUIDOrder)

	found, err := repo.Find(ctx, profile.UserID, "a@x.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, *profile, found[0])
	assert.Nil(t, found[0].Comment)
}

func TestUserProfileRepository_FindNoMatch(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	found, err := repo.Find(context.Background(), uuid.New(), "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestUserProfileRepository_FindOrdersByTimeUUID(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx := context.Background()
	userID := idgen.NewUserID()
	var created []*models.UserProfile
	for i := 0; i < 3; i++ {
		p := models.NewUserProfile(userID, idgen.NewOrderID(), "hist@x.com", "A B", int8(20+i))
		require.NoError(t, repo.Create(ctx, p))
		created = append(created, p)
	}
	defer func() {
		for _, p := range created {
			_ = repo.Delete(ctx, p.UserID, p.TimeUUIDOrder)
		}
	}()

	found, err := repo.Find(ctx, userID, "hist@x.com")
	require.NoError(t, err)
	require.Len(t, found, 3)
	for i := range created {
		assert.Equal(t, created[i].TimeUUIDOrder, found[i].TimeUUIDOrder)
	}
}

func TestUserProfileRepository_UpdateAndDelete(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx := context.Background()
	profile := newTestProfile("u@x.com")
	require.NoError(t, repo.Create(ctx, profile))

	require.NoError(t, repo.Update(ctx, profile.UserID, profile.TimeUUIDOrder, 31, "A C"))

	found, err := repo.Find(ctx, profile.UserID, "u@x.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int8(31), found[0].Age)
	assert.Equal(t, "A C", found[0].FullName)
	assert.Equal(t, "u@x.com", found[0].EmailAddress)

	require.NoError(t, repo.Delete(ctx, profile.UserID, profile.TimeUUIDOrder))

	found, err = repo.Find(ctx, profile.UserID, "u@x.com")
	require.NoError(t, err)
	assert.Empty(t, found)
}
