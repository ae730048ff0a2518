package aochat

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the ways a chat operation can fail, per the error
// taxonomy every caller needs to branch on (network trouble vs. a server
// rejection vs. programmer error).
type ErrorKind int

const (
	// KindNetwork covers socket open/read/write failure and a peer closing
	// the connection.
	KindNetwork ErrorKind = iota
	// KindTimeout covers underlying I/O timing out.
	KindTimeout
	// KindMalformedFrame covers a truncated body, an under-read primitive,
	// or a length prefix exceeding the remaining body.
	KindMalformedFrame
	// KindUnknownPacket covers a well-formed frame with an unrecognized
	// type arriving where a specific type was required.
	KindUnknownPacket
	// KindAuth covers the server returning LOGIN_ERROR.
	KindAuth
	// KindNoSuchCharacter covers login(id) when id is absent from the
	// advertised character list.
	KindNoSuchCharacter
	// KindOutOfRange covers a value exceeding its wire width.
	KindOutOfRange
	// KindIllegalState covers an operation invoked in the wrong session
	// state.
	KindIllegalState
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "NetworkError"
	case KindTimeout:
		return "Timeout"
	case KindMalformedFrame:
		return "MalformedFrame"
	case KindUnknownPacket:
		return "UnknownPacket"
	case KindAuth:
		return "AuthError"
	case KindNoSuchCharacter:
		return "NoSuchCharacter"
	case KindOutOfRange:
		return "OutOfRange"
	case KindIllegalState:
		return "IllegalState"
	default:
		return "Unknown"
	}
}

// Error is the single error type this package returns. Callers branch on
// Kind rather than matching strings; errors.As unwraps to *Error and
// errors.Is compares by Kind through Is.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aochat: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("aochat: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &aochat.Error{Kind: aochat.KindAuth}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// ErrUnknownDimension is returned by DimensionByID for an id outside the
// registry.
var ErrUnknownDimension = errors.New("aochat: unknown dimension id")
