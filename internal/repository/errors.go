package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict maps unique-constraint violations (duplicate transaction
	// id, second shipment for an order).
	ErrConflict = errors.New("conflict")
)
