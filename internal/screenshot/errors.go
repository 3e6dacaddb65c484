package screenshot

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a screenshot decode failure.
type ErrorKind int

const (
	InvalidBase64 ErrorKind = iota + 1
	TruncatedRunLength
	UnexpectedScreenLength
	UnsupportedMode
)

// Sentinels for errors.Is. A *DecodeError matches the sentinel of its Kind.
var (
	ErrInvalidBase64          = errors.New("invalid base64")
	ErrTruncatedRunLength     = errors.New("truncated run length")
	ErrUnexpectedScreenLength = errors.New("unexpected screen length")
	ErrUnsupportedMode        = errors.New("unsupported display mode")
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidBase64:
		return "InvalidBase64"
	case TruncatedRunLength:
		return "TruncatedRunLength"
	case UnexpectedScreenLength:
		return "UnexpectedScreenLength"
	case UnsupportedMode:
		return "UnsupportedMode"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidBase64:
		return ErrInvalidBase64
	case TruncatedRunLength:
		return ErrTruncatedRunLength
	case UnexpectedScreenLength:
		return ErrUnexpectedScreenLength
	case UnsupportedMode:
		return ErrUnsupportedMode
	}
	return nil
}

// DecodeError describes why a screenshot could not be decoded.
type DecodeError struct {
	Kind   ErrorKind
	Offset int    // payload offset for TruncatedRunLength, -1 otherwise
	Detail string // human readable context
	Err    error  // underlying error, if any
}

func (e *DecodeError) Error() string {
	msg := e.Kind.String()
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the sentinel for e.Kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from err, or 0 if err is not a *DecodeError.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
