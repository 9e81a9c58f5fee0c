package lin

import "time"

// Transport is the byte-level access to a single-wire LIN bus. All methods
// must return without waiting for the bus.
type Transport interface {
	// SendBreak starts a break of at least 13 bit times. The break is
	// read back as a single 0x00 byte once it has ended.
	SendBreak() error

	// SendByte queues one byte for transmission
	SendByte(b byte) error

	// TryReceiveByte returns the next received byte, or ok=false when
	// nothing is pending.
	TryReceiveByte() (b byte, ok bool, err error)
}

// Aborter is implemented by transports that hold the line in a non-idle
// condition between calls, such as a break. Abort must return the line to
// recessive and the transport to bus speed.
type Aborter interface {
	Abort() error
}

// TxEnabler drives the enable input of a LIN or RS485 transceiver
type TxEnabler interface {
	SetTxEnable(on bool) error
}

// Clock is the time source for frame timeouts
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type systemClock struct{}

func (systemClock) Now() time.Time                  { return time.Now() }
func (systemClock) Since(t time.Time) time.Duration { return time.Since(t) }

// SystemClock returns a Clock backed by the monotonic system clock
func SystemClock() Clock {
	return systemClock{}
}
