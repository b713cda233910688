package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samandartukhtayev/user-profile-service/models"
	"github.com/samandartukhtayev/user-profile-service/sharding"
)

// Statement is a query with its arguments bound by name
type Statement struct {
	SQL  string
	Args pgx.NamedArgs
}

// QueryBuilder produces the statements for the profile table
type QueryBuilder struct {
	table string
}

// NewQueryBuilder creates a builder targeting the profile table in keyspace
func NewQueryBuilder(keyspace string) *QueryBuilder {
	return &QueryBuilder{table: sharding.QualifiedTable(keyspace)}
}

// Insert binds every column of the profile, comment included
func (b *QueryBuilder) Insert(p *models.UserProfile) Statement {
	return Statement{
		SQL: fmt.Sprintf(`
		INSERT INTO %s (user_id, time_uuid_order, email_address, full_name, age, comment)
		VALUES (@user_id, @time_uuid_order, @email_address, @full_name, @age, @comment)
	`, b.table),
		Args: pgx.NamedArgs{
			"user_id":         p.UserID,
			"time_uuid_order": p.TimeUUIDOrder,
			"email_address":   p.EmailAddress,
			"full_name":       p.FullName,
			"age":             p.Age,
			"comment":         p.Comment,
		},
	}
}

// Select filters on the partition key and email, oldest row first
func (b *QueryBuilder) Select(userID uuid.UUID, email string) Statement {
	return Statement{
		SQL: fmt.Sprintf(`
		SELECT user_id, time_uuid_order, email_address, full_name, age, comment
		FROM %s
		WHERE user_id = @user_id AND email_address = @email_address
		ORDER BY time_uuid_order ASC
	`, b.table),
		Args: pgx.NamedArgs{
			"user_id":       userID,
			"email_address": email,
		},
	}
}

// Update sets age and full_name only
func (b *QueryBuilder) Update(userID, timeUUIDOrder uuid.UUID, age int8, fullName string) Statement {
	return Statement{
		SQL: fmt.Sprintf(`
		UPDATE %s
		SET age = @age, full_name = @full_name
		WHERE user_id = @user_id AND time_uuid_order = @time_uuid_order
	`, b.table),
		Args: pgx.NamedArgs{
			"age":             age,
			"full_name":       fullName,
			"user_id":         userID,
			"time_uuid_order": timeUUIDOrder,
		},
	}
}

// Delete removes the row addressed by the full primary key
func (b *QueryBuilder) Delete(userID, timeUUIDOrder uuid.UUID) Statement {
	return Statement{
		SQL: fmt.Sprintf(`DELETE FROM %s WHERE user_id = @user_id AND time_uuid_order = @time_uuid_order`, b.table),
		Args: pgx.NamedArgs{
			"user_id":         userID,
			"time_uuid_order": timeUUIDOrder,
		},
	}
}
