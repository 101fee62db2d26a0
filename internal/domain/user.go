package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	DateOfBirth  *time.Time
	Photo        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
