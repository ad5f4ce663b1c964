package lifecycle

import (
	"errors"
	"fmt"
)

// Code identifies a class of lifecycle failure. Callers must be able to
// distinguish every code: "already cancelled" renders very differently
// from "refund failed, contact support".
type Code string

const (
	CodeInvalidTransition     Code = "INVALID_TRANSITION"
	CodeDuplicateDecision     Code = "DUPLICATE_DECISION"
	CodePaymentAmountMismatch Code = "PAYMENT_AMOUNT_MISMATCH"
	CodeAlreadyCancelled      Code = "ALREADY_CANCELLED"
	CodeRefundRejected        Code = "REFUND_REJECTED"
	CodeSystemError           Code = "SYSTEM_ERROR"
)

// Error is the single error type surfaced by the lifecycle core.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is match two lifecycle errors by code only.
func (e *Error) Is(target error) bool {
	var le *Error
	if errors.As(target, &le) {
		return le.Code == e.Code
	}
	return false
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidTransition(from ReservationStatus, ev Event) *Error {
	return newError(CodeInvalidTransition, "event %s is not legal in state %s", ev, from)
}

func NewDuplicateDecision(detail string) *Error {
	return newError(CodeDuplicateDecision, "%s", detail)
}

func NewPaymentAmountMismatch(got, want int64) *Error {
	return newError(CodePaymentAmountMismatch, "callback amount %d does not match reservation amount %d", got, want)
}

func NewAlreadyCancelled() *Error {
	return newError(CodeAlreadyCancelled, "reservation is already cancelled")
}

func NewRefundRejected(reason string) *Error {
	return newError(CodeRefundRejected, "refund request was rejected: %s", reason)
}

func NewSystemError(detail string) *Error {
	return newError(CodeSystemError, "%s", detail)
}

// CodeOf extracts the taxonomy code, or "" for foreign errors.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
