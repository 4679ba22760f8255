// Package apperr defines the error taxonomy of a kick lifecycle.
package apperr

import "errors"

// Code is a machine-readable error class.
type Code string

const (
	CodePrecondition       Code = "PRECONDITION"
	CodeKickInProgress     Code = "KICK_IN_PROGRESS"
	CodeSubmission         Code = "SUBMISSION"
	CodeReceipt            Code = "RECEIPT"
	CodeReceiptTimeout     Code = "RECEIPT_TIMEOUT"
	CodeMissingEvent       Code = "MISSING_EVENT"
	CodeNetworkMismatch    Code = "NETWORK_MISMATCH"
	CodeFulfillmentTimeout Code = "FULFILLMENT_TIMEOUT"
	CodeUnknown            Code = "UNKNOWN"
)

// Error is the domain error type with a code and an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Internal message (for logs)
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Sentinels for errors.Is checks.
var (
	ErrPrecondition       = New(CodePrecondition, "precondition failed")
	ErrKickInProgress     = New(CodeKickInProgress, "kick already in progress")
	ErrSubmission         = New(CodeSubmission, "submission failed")
	ErrReceipt            = New(CodeReceipt, "receipt failed")
	ErrReceiptTimeout     = New(CodeReceiptTimeout, "receipt timed out")
	ErrMissingEvent       = New(CodeMissingEvent, "missing KickRequested event")
	ErrNetworkMismatch    = New(CodeNetworkMismatch, "network mismatch")
	ErrFulfillmentTimeout = New(CodeFulfillmentTimeout, "fulfillment timed out")
)

// CodeOf extracts the code of the first domain error in err's chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// UserMessage renders a player-facing message for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch CodeOf(err) {
	case CodePrecondition:
		var e *Error
		errors.As(err, &e)
		return e.Message
	case CodeKickInProgress:
		return "A kick is already in flight. Wait for the result."
	case CodeSubmission:
		return "Transaction failed. Please try the kick again."
	case CodeReceipt:
		return "Transaction was not confirmed on-chain."
	case CodeReceiptTimeout:
		return "Timed out waiting for block inclusion."
	case CodeMissingEvent:
		return "No KickRequested event in the receipt. Check the contract address and network."
	case CodeNetworkMismatch:
		return "Wrong network! Switch the wallet to the configured chain."
	case CodeFulfillmentTimeout:
		return "The oracle has not fulfilled the round yet. Check the round later."
	default:
		return err.Error()
	}
}
