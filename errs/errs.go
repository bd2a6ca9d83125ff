package errs

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"interlink/utils"
)

// Typed failures for the booking core. Each maps to one HTTP status class so
// handlers never pick status codes ad hoc.

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

type AuthorizationError struct{ Msg string }

func (e *AuthorizationError) Error() string { return e.Msg }

// ConflictError signals a temporal or business-rule gate failure; the message
// names the gate.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// CapacityError carries the remaining spot count at rejection time.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough spots available, only %d remaining", e.Remaining)
}

// PersistenceError wraps a store failure that happened after all gates passed.
// It is an infrastructure problem, not a user input problem.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Validation(msg string) error { return &ValidationError{Msg: msg} }

func NotFound(msg string) error { return &NotFoundError{Msg: msg} }

func Authorization(msg string) error { return &AuthorizationError{Msg: msg} }

func Conflict(msg string) error { return &ConflictError{Msg: msg} }

func Capacity(remaining int) error { return &CapacityError{Remaining: remaining} }

func Persistence(op string, err error) error { return &PersistenceError{Op: op, Err: err} }

// Status maps a typed failure to its HTTP status. Unknown errors are treated as
// internal.
func Status(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		ae *AuthorizationError
		ce *ConflictError
		cp *CapacityError
		pe *PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ae):
		return http.StatusForbidden
	case errors.As(err, &ce):
		return http.StatusBadRequest
	case errors.As(err, &cp):
		return http.StatusBadRequest
	case errors.As(err, &pe):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the {success:false, error} envelope. Persistence failures are
// logged with their cause; the cause never leaves the process.
func Respond(w http.ResponseWriter, err error) {
	status := Status(err)

	var pe *PersistenceError
	if errors.As(err, &pe) {
		log.Printf("persistence failure: %v", pe)
		utils.RespondWithJSON(w, status, utils.M{"success": false, "error": "internal server error"})
		return
	}

	payload := utils.M{"success": false, "error": err.Error()}
	var cp *CapacityError
	if errors.As(err, &cp) {
		payload["remaining"] = cp.Remaining
	}
	utils.RespondWithJSON(w, status, payload)
}
