package lin

import (
	"errors"
	"fmt"
	"time"

	"github.com/allbin/go-lin/serial"
	"github.com/golang/glog"
)

// BreakMode selects how a SerialTransport generates the break
type BreakMode int

const (
	// BreakHalfBaud sends 0x00 at half the bus speed. The nine low bits
	// (start + data) last 18 bus bit times. Needs baud/2 to be a standard
	// rate.
	BreakHalfBaud BreakMode = iota

	// BreakIoctl holds TX low with TIOCSBRK and releases it on the first
	// poll after 13 bit times.
	BreakIoctl
)

func (b BreakMode) String() string {
	switch b {
	case BreakHalfBaud:
		return "half-baud"
	case BreakIoctl:
		return "ioctl"
	}
	return fmt.Sprintf("BreakMode(%d)", int(b))
}

// ParseBreakMode accepts the names returned by BreakMode.String
func ParseBreakMode(s string) (BreakMode, error) {
	switch s {
	case "half-baud", "halfbaud", "":
		return BreakHalfBaud, nil
	case "ioctl":
		return BreakIoctl, nil
	}
	return 0, fmt.Errorf("%w: unknown break mode %q", ErrInvalidConfig, s)
}

// breakBits is the minimum break length in bit times
const breakBits = 13

// SerialTransport implements Transport, and Flusher, on a serial.Port
type SerialTransport struct {
	port     serial.Port
	baud     int
	mode     BreakMode
	clock    Clock
	breakLen time.Duration

	halfBaud bool      // port switched to baud/2 for the break byte
	inBreak  bool      // TIOCSBRK held
	breakAt  time.Time // when TIOCSBRK was set
	buf      [1]byte
}

var (
	_ Transport = (*SerialTransport)(nil)
	_ Flusher   = (*SerialTransport)(nil)
	_ Aborter   = (*SerialTransport)(nil)
)

// NewSerialTransport wraps an open port running at baud
func NewSerialTransport(p serial.Port, baud int, mode BreakMode) (*SerialTransport, error) {
	if p == nil {
		return nil, ErrNoTransport
	}
	if baud <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBaudRate, baud)
	}
	if mode == BreakHalfBaud {
		cfg := serial.DefaultConfig()
		if err := serial.WithBaudRate(baud / 2)(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %d has no half-speed break, use ioctl break mode", ErrInvalidBaudRate, baud)
		}
	}
	return &SerialTransport{
		port:     p,
		baud:     baud,
		mode:     mode,
		clock:    SystemClock(),
		breakLen: breakBits * time.Second / time.Duration(baud),
	}, nil
}

// OpenSerial opens device for LIN use at baud: 8N1, non-blocking reads.
func OpenSerial(device string, baud int, mode BreakMode, opts ...serial.Option) (*SerialTransport, error) {
	opts = append([]serial.Option{serial.WithBaudRate(baud), serial.WithReadTimeout(0)}, opts...)
	p, err := serial.Open(device, opts...)
	if err != nil {
		return nil, err
	}
	t, err := NewSerialTransport(p, baud, mode)
	if err != nil {
		p.Close()
		return nil, err
	}
	glog.V(1).Infof("lin: opened %s at %d baud, %s break", device, baud, mode)
	return t, nil
}

// Port returns the underlying serial port
func (t *SerialTransport) Port() serial.Port {
	return t.port
}

// Close releases a held break and closes the port
func (t *SerialTransport) Close() error {
	if t.inBreak {
		_ = t.port.SetBreak(false)
		t.inBreak = false
	}
	return t.port.Close()
}

// Abort releases a held break and leaves the break speed, for an exchange
// given up before the break was read back.
func (t *SerialTransport) Abort() error {
	var errs []error
	if t.inBreak {
		errs = append(errs, t.endBreak())
	}
	if t.halfBaud {
		if err := t.port.SetBaudRate(t.baud); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore bus speed: %w", err))
		} else {
			t.halfBaud = false
		}
	}
	return errors.Join(errs...)
}

// Flush discards unread input
func (t *SerialTransport) Flush() error {
	return t.port.FlushInput()
}

// SendBreak starts the break in the configured mode
func (t *SerialTransport) SendBreak() error {
	switch t.mode {
	case BreakIoctl:
		if err := t.port.SetBreak(true); err != nil {
			return fmt.Errorf("failed to start break: %w", err)
		}
		t.inBreak = true
		t.breakAt = t.clock.Now()
		return nil
	default:
		if err := t.port.SetBaudRate(t.baud / 2); err != nil {
			return fmt.Errorf("failed to switch to break speed: %w", err)
		}
		t.halfBaud = true
		if _, err := t.port.Write([]byte{0x00}); err != nil {
			return fmt.Errorf("failed to send break: %w", err)
		}
		return nil
	}
}

// SendByte writes one byte
func (t *SerialTransport) SendByte(b byte) error {
	if t.inBreak {
		if err := t.endBreak(); err != nil {
			return err
		}
	}
	t.buf[0] = b
	_, err := t.port.Write(t.buf[:])
	return err
}

// TryReceiveByte polls for one byte. While an ioctl break is held it
// only checks whether the break has lasted long enough to release.
func (t *SerialTransport) TryReceiveByte() (byte, bool, error) {
	if t.inBreak {
		if t.clock.Since(t.breakAt) < t.breakLen {
			return 0, false, nil
		}
		return 0, false, t.endBreak()
	}

	var b [1]byte
	n, err := t.port.Read(b[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}

	// the break byte is back, return to bus speed for the header
	if t.halfBaud {
		if err := t.port.SetBaudRate(t.baud); err != nil {
			return 0, false, fmt.Errorf("failed to restore bus speed: %w", err)
		}
		t.halfBaud = false
	}
	return b[0], true, nil
}

func (t *SerialTransport) endBreak() error {
	t.inBreak = false
	if err := t.port.SetBreak(false); err != nil {
		return fmt.Errorf("failed to end break: %w", err)
	}
	return nil
}

// RTSLine drives a transceiver enable input wired to RTS
type RTSLine struct {
	Port   serial.Port
	Invert bool // enable is active low
}

var _ TxEnabler = RTSLine{}

// SetTxEnable sets RTS to on, or to !on when Invert is set
func (r RTSLine) SetTxEnable(on bool) error {
	return r.Port.SetRTS(on != r.Invert)
}
