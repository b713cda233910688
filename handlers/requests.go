package handlers

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Request bodies use pointer fields so a missing field can be told apart
// from a zero value. Unknown fields are ignored.

type createUserRequest struct {
	EmailAddress *string `json:"email_address"`
	FullName     *string `json:"full_name"`
	Age          *int8   `json:"age"`
	Comment      *string `json:"comment"`
}

func (r *createUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EmailAddress, validation.NotNil),
		validation.Field(&r.FullName, validation.NotNil),
		validation.Field(&r.Age, validation.NotNil),
	)
}

type readUserProfileRequest struct {
	UserID       *uuid.UUID `json:"user_id"`
	EmailAddress *string    `json:"email_address"`
}

func (r *readUserProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.NotNil),
		validation.Field(&r.EmailAddress, validation.NotNil),
	)
}

type updateUserProfileRequest struct {
	UserID        *string `json:"user_id"`
	TimeUUIDOrder *string `json:"time_uuid_order"`
	Age           *int8   `json:"age"`
	FullName      *string `json:"full_name"`
}

func (r *updateUserProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.NotNil),
		validation.Field(&r.TimeUUIDOrder, validation.NotNil),
		validation.Field(&r.Age, validation.NotNil),
		validation.Field(&r.FullName, validation.NotNil),
	)
}

type deleteUserProfileRequest struct {
	TimeUUIDOrder *string `json:"time_uuid_order"`
	UserID        *string `json:"user_id"`
}

func (r *deleteUserProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TimeUUIDOrder, validation.NotNil),
		validation.Field(&r.UserID, validation.NotNil),
	)
}
