package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrProviderUnavailable = errors.New("image provider unavailable")
	ErrInsufficientCredits = errors.New("insufficient credits")
)
