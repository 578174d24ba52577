package model

import (
	"io"
	"time"
)

// User represents an account row in the users table.
// PasswordHash never leaves the service layer; see UserResponse.
type User struct {
	ID           int64
	LoginID      string
	Nickname     string
	PasswordHash string
	ProfileImage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserResponse is the outward-facing representation of a user.
// It deliberately has no password field at all, so the hash can never
// be serialized by accident.
type UserResponse struct {
	ID           int64     `json:"id"`
	LoginID      string    `json:"userId"`
	Nickname     string    `json:"nickname"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Response converts a User into its safe outward representation.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:           u.ID,
		LoginID:      u.LoginID,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ImageUpload carries an inbound profile-image file to the storage backend.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}
