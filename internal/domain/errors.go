package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are missing or invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrFoodNotFound is returned when a food name has no row in the nutrition table
	ErrFoodNotFound = errors.New("food not found")

	// ErrStoreUnavailable is returned when the nutrition store cannot be reached
	// or a query against it fails
	ErrStoreUnavailable = errors.New("nutrition store unavailable")
)
