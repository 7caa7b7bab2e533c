package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError covers any entity id that failed to resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// UnauthorizedError is an access-policy denial, never a credential failure.
type UnauthorizedError struct {
	Operation string
	Resource  string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("not authorized to %s %s", e.Operation, e.Resource)
}

func IsUnauthorized(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

type InsufficientStockError struct {
	PartID    int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for part %d: requested %d, available %d",
		e.PartID, e.Requested, e.Available)
}

func IsInsufficientStock(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}

// ConflictError signals an optimistic-concurrency mismatch: the record
// changed between the read that authorized the mutation and the write.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Reason)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// VehicleInProcessError rejects a second live work order for a vehicle
// that already has a non-terminal one.
type VehicleInProcessError struct {
	VehicleID string
	OrderID   int
}

func (e *VehicleInProcessError) Error() string {
	return fmt.Sprintf("vehicle %s already has work order %d in process", e.VehicleID, e.OrderID)
}

func IsVehicleInProcess(err error) bool {
	var e *VehicleInProcessError
	return errors.As(err, &e)
}
