package apperrors

import "net/http"

// HTTPStatus maps a typed error to the status code handlers respond with.
// Business failures stay 4xx; anything unrecognized is a server fault.
func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsUnauthorized(err):
		return http.StatusForbidden
	case IsValidation(err):
		return http.StatusBadRequest
	case IsInvalidTransition(err):
		return http.StatusUnprocessableEntity
	case IsInsufficientStock(err), IsConflict(err), IsVehicleInProcess(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
