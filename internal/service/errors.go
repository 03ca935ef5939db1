package service

import "errors"

var (
	ErrInsufficientStock = errors.New("not enough stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidStatus     = errors.New("status must be one of pending, completed, cancelled")
	ErrInvalidDateRange  = errors.New("dates must use the YYYY-MM-DD format and start before end")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
)
