package lin

import (
	"time"
)

// fakeBus is a scripted single-wire bus. Transmitted bytes are echoed
// back unless echo is off, and a slave response is queued once the
// header (break, sync, PID) has been sent.
type fakeBus struct {
	echo     bool
	corrupt  map[int]byte // index into sent -> byte read back instead
	response []byte

	rx      []byte
	sent    []byte
	breaks  int
	flushes int
	calls   int // every Transport call except polls

	sendErr  error
	breakErr error
	recvErr  error
}

func newFakeBus() *fakeBus {
	return &fakeBus{echo: true, corrupt: map[int]byte{}}
}

func (f *fakeBus) transmit(b byte) {
	i := len(f.sent)
	f.sent = append(f.sent, b)
	if f.echo {
		if c, ok := f.corrupt[i]; ok {
			b = c
		}
		f.rx = append(f.rx, b)
	}
	if len(f.sent) == headerLen && f.response != nil {
		f.rx = append(f.rx, f.response...)
	}
}

func (f *fakeBus) SendBreak() error {
	f.calls++
	if f.breakErr != nil {
		return f.breakErr
	}
	f.breaks++
	f.sent = f.sent[:0]
	f.transmit(0x00)
	return nil
}

func (f *fakeBus) SendByte(b byte) error {
	f.calls++
	if f.sendErr != nil {
		return f.sendErr
	}
	f.transmit(b)
	return nil
}

func (f *fakeBus) TryReceiveByte() (byte, bool, error) {
	if f.recvErr != nil {
		return 0, false, f.recvErr
	}
	if len(f.rx) == 0 {
		return 0, false, nil
	}
	b := f.rx[0]
	f.rx = f.rx[1:]
	return b, true, nil
}

func (f *fakeBus) Flush() error {
	f.calls++
	f.flushes++
	f.rx = f.rx[:0]
	return nil
}

// fakeClock advances by step on every reading
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *fakeClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// fakeTxEnable records every transceiver enable change
type fakeTxEnable struct {
	calls []bool
	err   error
}

func (f *fakeTxEnable) SetTxEnable(on bool) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, on)
	return nil
}
