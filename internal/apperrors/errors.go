package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindInvalidImage   Kind = "invalid_image"
	KindCorruptLibrary Kind = "corrupt_library"
	KindStorage        Kind = "storage"
	KindInvalidInput   Kind = "invalid_input"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindInvalidImage:
		return "Cannot display this file. It is missing or not a supported animated image."
	case KindCorruptLibrary:
		return "The library file is damaged and could not be loaded."
	case KindStorage:
		return "The library file could not be read or written."
	case KindInvalidInput:
		return "Invalid input."
	default:
		return "Operation failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func InvalidImage(err error) error {
	return New(KindInvalidImage, "", err)
}

func CorruptLibrary(err error) error {
	return New(KindCorruptLibrary, "", err)
}

func Storage(err error) error {
	return New(KindStorage, "", err)
}

func InvalidInput(msg string) error {
	return New(KindInvalidInput, msg, nil)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// Detail returns the safe message followed by the underlying cause, for logs
// and CLI output where the user needs to know what went wrong.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) || e.Cause == nil {
		return PublicMessage(err)
	}
	return e.Error() + ": " + e.Cause.Error()
}
