package model

import "time"

// User is a registered practice account. PasswordHash never leaves the service.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session records one completed practice analysis for a user.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Field     string     `json:"field"`
	Category  Category   `json:"category"`
	Source    SignalKind `json:"source"`
	Rating    float64    `json:"rating"`
	CreatedAt time.Time  `json:"created_at"`
}
