package models

import "github.com/google/uuid"

// UserProfile represents a row of the user_profile table.
// UserID is the partition key and TimeUUIDOrder the clustering key;
// together they identify a row.
type UserProfile struct {
	UserID        uuid.UUID `json:"user_id"`
	TimeUUIDOrder uuid.UUID `json:"time_uuid_order"`
	EmailAddress  string    `json:"email_address"`
	FullName      string    `json:"full_name"`
	Age           int8      `json:"age"`
	// Comment is part of the schema but no operation writes it yet.
	Comment *string `json:"comment"`
}

// NewUserProfile builds a profile row for insertion. Comment is always nil.
func NewUserProfile(userID, timeUUIDOrder uuid.UUID, email, fullName string, age int8) *UserProfile {
	return &UserProfile{
		UserID:        userID,
		TimeUUIDOrder: timeUUIDOrder,
		EmailAddress:  email,
		FullName:      fullName,
		Age:           age,
	}
}
