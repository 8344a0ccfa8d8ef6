package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies reconciliation failures
type ErrorKind string

const (
	KindInput      ErrorKind = "input"
	KindValidation ErrorKind = "validation"
	KindQuery      ErrorKind = "query"
	KindPolicy     ErrorKind = "policy"
	KindAction     ErrorKind = "action"
)

// Reason narrows down a validation or policy failure
type Reason string

const (
	ReasonDeviceNotFound        Reason = "DeviceNotFound"
	ReasonDeviceAlreadyInUse    Reason = "DeviceAlreadyInUse"
	ReasonRefuseNonEmptyRemoval Reason = "RefuseNonEmptyRemoval"
)

// Error is the structured failure returned by every stage of a run.
// Which optional fields are set depends on Kind.
type Error struct {
	Kind    ErrorKind
	Reason  Reason
	Message string

	Device     string
	OtherGroup string
	Action     *Action
	ExitCode   int
	Stderr     string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries an *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HasReason reports whether err carries an *Error with the given reason
func HasReason(err error, reason Reason) bool {
	var e *Error
	return errors.As(err, &e) && e.Reason == reason
}

func NewInputError(msg string) *Error {
	return &Error{Kind: KindInput, Message: msg}
}

func NewDeviceNotFound(device string) *Error {
	return &Error{
		Kind:    KindValidation,
		Reason:  ReasonDeviceNotFound,
		Message: fmt.Sprintf("device %s not found", device),
		Device:  device,
	}
}

func NewDeviceAlreadyInUse(device, otherGroup string) *Error {
	return &Error{
		Kind:       KindValidation,
		Reason:     ReasonDeviceAlreadyInUse,
		Message:    fmt.Sprintf("device %s is already in volume group %s", device, otherGroup),
		Device:     device,
		OtherGroup: otherGroup,
	}
}

func NewQueryError(command string, exitCode int, stderr string, err error) *Error {
	msg := fmt.Sprintf("inventory query %s failed with exit code %d", command, exitCode)
	if trimmed := strings.TrimSpace(stderr); trimmed != "" {
		msg = fmt.Sprintf("%s: %s", msg, trimmed)
	}
	return &Error{Kind: KindQuery, Message: msg, ExitCode: exitCode, Stderr: stderr, Err: err}
}

func NewRefuseNonEmptyRemoval(group string, volumes int) *Error {
	return &Error{
		Kind:    KindPolicy,
		Reason:  ReasonRefuseNonEmptyRemoval,
		Message: fmt.Sprintf("refusing to remove volume group %s: it contains %d logical volume(s), set force to remove it", group, volumes),
	}
}

func NewActionFailed(action Action, exitCode int, stderr string, err error) *Error {
	msg := fmt.Sprintf("action %s failed with exit code %d", action, exitCode)
	if trimmed := strings.TrimSpace(stderr); trimmed != "" {
		msg = fmt.Sprintf("%s: %s", msg, trimmed)
	}
	a := action
	return &Error{Kind: KindAction, Message: msg, Action: &a, ExitCode: exitCode, Stderr: stderr, Err: err}
}

// NewQueryParseError reports query output that could not be parsed. It is a
// query failure: a skipped line could hide a device or a volume.
func NewQueryParseError(command string, err error) *Error {
	return &Error{Kind: KindQuery, Message: fmt.Sprintf("failed to parse %s output", command), Err: err}
}
