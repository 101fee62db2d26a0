package apperrors

import "errors"

var (
	ErrFlightNotFound      = errors.New("flight not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrFlightNumberTaken   = errors.New("flight number already exists")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("incorrect username or password")
	ErrAccountDisabled     = errors.New("user account disabled")
	ErrInvalidTicketStatus = errors.New("ticket status must be PD or RD")
	ErrInvalidFlightStatus = errors.New("unknown flight status")
)
