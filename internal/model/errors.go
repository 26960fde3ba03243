package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username taken")

	// Moderation errors
	ErrUnauthorized = errors.New("not authorized")

	// Storage errors
	ErrPersistence = errors.New("persistence failure")
)
