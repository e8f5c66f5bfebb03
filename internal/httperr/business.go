package httperr

import (
	"errors"
	"net/http"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

var businessStatus = map[string]int{
	"invalid_range":           http.StatusBadRequest,
	"invalid_settings":        http.StatusBadRequest,
	"not_found":               http.StatusNotFound,
	"slot_unavailable":        http.StatusConflict,
	"booking_conflict":        http.StatusConflict,
	"staff_busy":              http.StatusConflict,
	"hold_invalid_or_expired": http.StatusGone,
	"invalid_state":           http.StatusUnprocessableEntity,
}

// StatusFor maps a business error code to its HTTP status. Unknown codes
// are treated as client errors.
func StatusFor(code string) int {
	if s, ok := businessStatus[code]; ok {
		return s
	}
	return http.StatusBadRequest
}
