package repository

import (
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samandartukhtayev/user-profile-service/models"
)

var placeholderRe = regexp.MustCompile(`@([a-z_]+)`)

// placeholders returns the sorted, de-duplicated named parameters in sql.
func placeholders(sql string) []string {
	seen := map[string]struct{}{}
	for _, m := range placeholderRe.FindAllStringSubmatch(sql, -1) {
		seen[m[1]] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func argNames(s Statement) []string {
	names := make([]string, 0, len(s.Args))
	for n := range s.Args {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func TestQueryBuilder_PlaceholdersMatchArgs(t *testing.T) {
	b := NewQueryBuilder("demo_service_keyspace")
	userID, orderID := uuid.New(), uuid.New()
	profile := models.NewUserProfile(userID, orderID, "a@x.com", "A B", 30)

	tests := []struct {
		name string
		stmt Statement
		want []string
	}{
		{"insert", b.Insert(profile), []string{"age", "comment", "email_address", "full_name", "time_uuid_order", "user_id"}},
		{"select", b.Select(userID, "a@x.com"), []string{"email_address", "user_id"}},
		{"update", b.Update(userID, orderID, 31, "A C"), []string{"age", "full_name", "time_uuid_order", "user_id"}},
		{"delete", b.Delete(userID, orderID), []string{"time_uuid_order", "user_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, placeholders(tt.stmt.SQL))
			assert.Equal(t, tt.want, argNames(tt.stmt))
			assert.Contains(t, tt.stmt.SQL, `"demo_service_keyspace"."user_profile"`)
		})
	}
}

func TestQueryBuilder_Insert(t *testing.T) {
	b := NewQueryBuilder("ks")
	userID, orderID := uuid.New(), uuid.New()
	stmt := b.Insert(models.NewUserProfile(userID, orderID, "a@x.com", "A B", 30))

	assert.True(t, strings.Contains(stmt.SQL, "INSERT INTO"))
	assert.Equal(t, userID, stmt.Args["user_id"])
	assert.Equal(t, orderID, stmt.Args["time_uuid_order"])
	assert.Equal(t, "a@x.com", stmt.Args["email_address"])
	assert.Equal(t, "A B", stmt.Args["full_name"])
	assert.Equal(t, int8(30), stmt.Args["age"])

	comment, ok := stmt.Args["comment"].(*string)
	require.True(t, ok)
	assert.Nil(t, comment, "comment is always inserted as null")
}

func TestQueryBuilder_UpdateSetsOnlyMutableColumns(t *testing.T) {
	stmt := NewQueryBuilder("ks").Update(uuid.New(), uuid.New(), 31, "A C")

	set := stmt.SQL[strings.Index(stmt.SQL, "SET"):strings.Index(stmt.SQL, "WHERE")]
	assert.Contains(t, set, "age = @age")
	assert.Contains(t, set, "full_name = @full_name")
	assert.NotContains(t, set, "email_address")
	assert.NotContains(t, set, "comment")
	assert.Equal(t, int8(31), stmt.Args["age"])
}

func TestQueryBuilder_SelectOrdersByClusteringKey(t *testing.T) {
	stmt := NewQueryBuilder("ks").Select(uuid.New(), "a@x.com")
	assert.Contains(t, stmt.SQL, "ORDER BY time_uuid_order ASC")
}
