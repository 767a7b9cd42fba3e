package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes teachers from students.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// User is an account known to the platform. The grading engine treats the
// id as opaque; profile fields exist for leaderboard and review display.
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRef is the minimal public projection of a user.
type UserRef struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// LoginRequest is the payload for obtaining a JWT.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
