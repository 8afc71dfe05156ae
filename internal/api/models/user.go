package models

import "time"

// User represents a registered account. PlayerID is the identity used in
// games and token subjects.
type User struct {
	ID           int64     `db:"id"`
	PlayerID     string    `db:"player_id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// RegisterRequest defines the structure for a user registration request.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest defines the structure for a user login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by login and guest login.
type LoginResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
}
