package lin

import (
	"context"
	"errors"
	"strings"
)

// Error is the sticky set of protocol faults recorded by a Master.
// Bits accumulate across exchanges until ResetError is called.
type Error uint8

const (
	NoError       Error = 0x00
	ErrorState    Error = 0x01 // request or handler call in the wrong state
	ErrorEcho     Error = 0x02 // a transmitted byte was not read back identically
	ErrorTimeout  Error = 0x04 // frame not completed within the frame timeout
	ErrorChecksum Error = 0x08 // checksum or protected identifier mismatch
	ErrorMisc     Error = 0x80 // bad arguments, transport failure, anything else
)

// Sentinel errors matching the Error bits, for use with errors.Is
var (
	ErrStateViolation = errors.New("lin: request in wrong state")
	ErrEcho           = errors.New("lin: echo mismatch")
	ErrTimeout        = errors.New("lin: frame timeout")
	ErrChecksum       = errors.New("lin: checksum mismatch")
	ErrMisc           = errors.New("lin: bus error")
)

// Errors returned by Begin, the codec and the transport adapters
var (
	ErrInvalidID       = errors.New("lin: frame identifier out of range")
	ErrParity          = errors.New("lin: protected identifier parity mismatch")
	ErrInvalidBaudRate = errors.New("lin: invalid baud rate")
	ErrInvalidConfig   = errors.New("lin: invalid configuration")
	ErrNoTransport     = errors.New("lin: no transport")
)

var errorBits = []struct {
	bit  Error
	name string
	err  error
}{
	{ErrorState, "state", ErrStateViolation},
	{ErrorEcho, "echo", ErrEcho},
	{ErrorTimeout, "timeout", ErrTimeout},
	{ErrorChecksum, "checksum", ErrChecksum},
	{ErrorMisc, "misc", ErrMisc},
}

// Has reports whether all bits of e2 are set in e
func (e Error) Has(e2 Error) bool {
	return e&e2 == e2
}

// Err returns nil for NoError, otherwise the sentinel errors of every set
// bit joined together.
func (e Error) Err() error {
	if e == NoError {
		return nil
	}
	var errs []error
	for _, b := range errorBits {
		if e&b.bit != 0 {
			errs = append(errs, b.err)
		}
	}
	return errors.Join(errs...)
}

// ErrorOf maps an error returned by the Context variants back to Error
// bits. Context errors map the way an aborted exchange records them.
func ErrorOf(err error) Error {
	if err == nil {
		return NoError
	}
	var e Error
	for _, b := range errorBits {
		if errors.Is(err, b.err) {
			e |= b.bit
		}
	}
	if e == NoError {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrorTimeout
		}
		return ErrorMisc
	}
	return e
}

func (e Error) String() string {
	if e == NoError {
		return "none"
	}
	var names []string
	for _, b := range errorBits {
		if e&b.bit != 0 {
			names = append(names, b.name)
		}
	}
	return strings.Join(names, "|")
}
