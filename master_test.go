package lin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaud = 19200

func newTestMaster(t *testing.T, bus *fakeBus, version Version, opts ...Option) *Master {
	t.Helper()
	opts = append([]Option{WithClock(newFakeClock(10 * time.Microsecond))}, opts...)
	m := NewMaster()
	require.NoError(t, m.Begin("test", bus, testBaud, version, opts...))
	return m
}

// slaveResponse returns data followed by its checksum for id
func slaveResponse(t *testing.T, id uint8, version Version, data ...byte) []byte {
	t.Helper()
	pid, err := CalculatePID(id)
	require.NoError(t, err)
	return append(append([]byte(nil), data...), CalculateChecksum(pid, data, version))
}

func TestBegin(t *testing.T) {
	m := NewMaster()
	assert.Equal(t, StateOff, m.State())

	bus := newFakeBus()
	require.NoError(t, m.Begin("body", bus, testBaud, V2))
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, NoError, m.Error())
	assert.Equal(t, "body", m.Name())
	assert.Equal(t, V2, m.Version())
	assert.Equal(t, testBaud, m.BaudRate())
	assert.Equal(t, 520833*time.Nanosecond, m.TimePerByte())
	assert.Zero(t, bus.calls, "Begin must not touch the bus")
}

func TestBeginInvalid(t *testing.T) {
	tests := []struct {
		name    string
		t       Transport
		baud    int
		version Version
		opts    []Option
		want    error
	}{
		{"nil transport", nil, testBaud, V2, nil, ErrNoTransport},
		{"baud too low", newFakeBus(), 999, V2, nil, ErrInvalidBaudRate},
		{"baud too high", newFakeBus(), 115200, V2, nil, ErrInvalidBaudRate},
		{"unknown version", newFakeBus(), testBaud, Version(3), nil, ErrInvalidConfig},
		{"nil clock", newFakeBus(), testBaud, V1, []Option{WithClock(nil)}, ErrInvalidConfig},
		{"negative slack", newFakeBus(), testBaud, V1, []Option{WithTimeoutSlack(-time.Millisecond)}, ErrInvalidConfig},
		{"zero gap", newFakeBus(), testBaud, V1, []Option{WithResponseGap(0)}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaster()
			err := m.Begin("x", tt.t, tt.baud, tt.version, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, StateOff, m.State())
		})
	}
}

func TestBeginReleasesTransmitter(t *testing.T) {
	tx := &fakeTxEnable{}
	newTestMaster(t, newFakeBus(), V2, WithTxEnable(tx))
	assert.Equal(t, []bool{false}, tx.calls)

	tx = &fakeTxEnable{err: errors.New("gpio busy")}
	err := NewMaster().Begin("x", newFakeBus(), testBaud, V2, WithTxEnable(tx))
	assert.Error(t, err)
}

func TestSendMasterRequest(t *testing.T) {
	bus := newFakeBus()
	m := newTestMaster(t, bus, V2)

	state := m.SendMasterRequest(0x10, []byte{0x01})
	assert.Equal(t, StateBreak, state)
	assert.Equal(t, 1, bus.flushes)
	assert.Equal(t, 1, bus.breaks)

	assert.Equal(t, StateBody, m.Handler())
	assert.Equal(t, []byte{0x00, SyncByte, 0x50, 0x01, 0xAE}, bus.sent)

	for i := 0; i < 3; i++ {
		assert.Equal(t, StateBody, m.Handler())
	}
	assert.Equal(t, StateDone, m.Handler())
	assert.Equal(t, NoError, m.Error())

	f := m.Frame()
	assert.True(t, f.Valid)
	assert.Equal(t, uint8(0x10), f.ID)
	assert.Equal(t, MasterRequest, f.Type)
	assert.Equal(t, uint8(0x50), f.PID)
	assert.Equal(t, []byte{0x01}, f.Data)
	assert.Equal(t, uint8(0xAE), f.Checksum)
}

func TestSendMasterRequestClassic(t *testing.T) {
	bus := newFakeBus()
	m := newTestMaster(t, bus, V1)

	assert.Equal(t, NoError, m.SendMasterRequestBlocking(0x10, []byte{0x01}))
	assert.Equal(t, []byte{0x00, SyncByte, 0x50, 0x01, 0xFE}, bus.sent)
	assert.Equal(t, StateDone, m.State())
}

func TestGettersIdempotent(t *testing.T) {
	bus := newFakeBus()
	bus.echo = false
	m := newTestMaster(t, bus, V2)
	m.SendMasterRequest(0x10, []byte{0x01})
	m.SendMasterRequest(0x11, []byte{0x01})

	state, errs := m.State(), m.Error()
	for i := 0; i < 10; i++ {
		assert.Equal(t, state, m.State())
		assert.Equal(t, errs, m.Error())
	}
	assert.Equal(t, StateBreak, state)
	assert.Equal(t, ErrorState, errs)
}

func TestRequestRejectedWhenNotIdle(t *testing.T) {
	bus := newFakeBus()
	bus.echo = false
	m := newTestMaster(t, bus, V2)

	requests := []struct {
		name string
		call func() State
	}{
		{"master request", func() State { return m.SendMasterRequest(0x01, []byte{0xAA}) }},
		{"slave response", func() State { return m.ReceiveSlaveResponse(0x02) }},
		{"slave response len", func() State { return m.ReceiveSlaveResponseLen(0x02, 2) }},
		{"blocking master request", func() State { m.SendMasterRequestBlocking(0x01, []byte{0xAA}); return m.State() }},
		{"blocking slave response", func() State { m.ReceiveSlaveResponseBlocking(0x02); return m.State() }},
	}

	require.Equal(t, StateBreak, m.SendMasterRequest(0x10, []byte{0x01}))
	sent := append([]byte(nil), bus.sent...)

	for _, state := range []State{StateBreak, StateDone} {
		if state == StateDone {
			for m.Handler() != StateDone {
			}
			m.ResetError()
		}
		for _, r := range requests {
			t.Run(state.String()+"/"+r.name, func(t *testing.T) {
				calls := bus.calls
				assert.Equal(t, state, r.call())
				assert.Equal(t, calls, bus.calls, "refused request touched the bus")
				assert.True(t, m.Error().Has(ErrorState))
				assert.Equal(t, sent, bus.sent)
			})
		}
	}
}

func TestRequestRejectedWhenOff(t *testing.T) {
	bus := newFakeBus()
	m := newTestMaster(t, bus, V2)
	require.NoError(t, m.End())

	assert.Equal(t, StateOff, m.SendMasterRequest(0x10, []byte{0x01}))
	assert.Equal(t, ErrorState, m.SendMasterRequestBlocking(0x10, []byte{0x01}))
	assert.Zero(t, bus.calls)
	assert.Equal(t, StateOff, m.State())
}

func TestBlockingTimeoutSilentBus(t *testing.T) {
	bus := newFakeBus()
	bus.echo = false
	m := newTestMaster(t, bus, V2)

	e := m.SendMasterRequestBlocking(0x10, []byte{0x01})
	assert.Equal(t, StateDone, m.State())
	assert.True(t, e.Has(ErrorTimeout))
	assert.True(t, errors.Is(e.Err(), ErrTimeout))
	assert.False(t, m.Frame().Valid)
}

func TestTimeoutInBody(t *testing.T) {
	bus := newFakeBus()
	bus.response = []byte{} // slave never answers
	m := newTestMaster(t, bus, V2)

	e := m.ReceiveSlaveResponseLenBlocking(0x20, 2)
	assert.Equal(t, ErrorTimeout, e)
	assert.Equal(t, StateDone, m.State())
}

func TestEchoMismatch(t *testing.T) {
	tests := []struct {
		name  string
		index int
	}{
		{"break", 0},
		{"sync", 1},
		{"pid", 2},
		{"data", 3},
		{"checksum", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			bus.corrupt[tt.index] = 0xFF
			m := newTestMaster(t, bus, V2)

			e := m.SendMasterRequestBlocking(0x10, []byte{0x01, 0x02})
			assert.Equal(t, ErrorEcho, e)
			assert.Equal(t, StateDone, m.State())
			assert.False(t, m.Frame().Valid)
			assert.True(t, errors.Is(m.FrameError().Err(), ErrEcho))
		})
	}
}

func TestSlaveResponseRoundTrip(t *testing.T) {
	bus := newFakeBus()
	bus.response = slaveResponse(t, 0x20, V2, 0x11, 0x22, 0x33)
	m := newTestMaster(t, bus, V2)

	e := m.ReceiveSlaveResponseBlocking(0x20)
	assert.Equal(t, NoError, e)
	assert.Equal(t, StateDone, m.State())
	assert.Equal(t, []byte{0x00, SyncByte, 0x20}, bus.sent)

	f := m.Frame()
	assert.True(t, f.Valid)
	assert.Equal(t, SlaveResponse, f.Type)
	assert.Equal(t, []byte{0x11, 0x22, 0x33}, f.Data)
	assert.Equal(t, uint8(0x79), f.Checksum)
}

func TestSlaveResponseKnownLength(t *testing.T) {
	bus := newFakeBus()
	// trailing noise after the frame must not be consumed
	bus.response = append(slaveResponse(t, 0x21, V1, 0x01, 0x02), 0xEE)
	m := newTestMaster(t, bus, V1)

	m.ReceiveSlaveResponseLen(0x21, 2)
	handlerCalls := 0
	for m.Handler() != StateDone {
		handlerCalls++
		require.Less(t, handlerCalls, 100)
	}
	assert.Equal(t, NoError, m.Error())
	assert.Equal(t, []byte{0x01, 0x02}, m.Frame().Data)
	assert.Equal(t, []byte{0xEE}, bus.rx)
	// break, sync, pid, 2 data, checksum: one byte per call
	assert.Equal(t, 5, handlerCalls)
}

func TestSlaveResponseMaxLength(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	bus := newFakeBus()
	bus.response = append(slaveResponse(t, 0x30, V2, data...), 0x99, 0x98)
	m := newTestMaster(t, bus, V2)

	m.ReceiveSlaveResponse(0x30)
	calls := 0
	for m.Handler() != StateDone {
		calls++
	}
	// closed on the ninth response byte without waiting for a gap
	assert.Equal(t, 11, calls)
	assert.Equal(t, NoError, m.Error())
	assert.Equal(t, data, m.Frame().Data)
	assert.Equal(t, []byte{0x99, 0x98}, bus.rx)
}

func TestSlaveResponseSingleByteNotComplete(t *testing.T) {
	bus := newFakeBus()
	bus.response = []byte{0x42}
	m := newTestMaster(t, bus, V2)

	e := m.ReceiveSlaveResponseBlocking(0x20)
	assert.Equal(t, ErrorTimeout, e)
}

func TestSlaveResponseInvalidLength(t *testing.T) {
	for _, n := range []int{0, 9, -1} {
		bus := newFakeBus()
		m := newTestMaster(t, bus, V2)

		assert.Equal(t, StateDone, m.ReceiveSlaveResponseLen(0x20, n))
		assert.Equal(t, ErrorMisc, m.Error())
		assert.Zero(t, bus.calls)
	}
}

func TestChecksumErrorAndReset(t *testing.T) {
	bus := newFakeBus()
	resp := slaveResponse(t, 0x20, V2, 0x11, 0x22, 0x33)
	resp[len(resp)-1] ^= 0x5A
	bus.response = resp
	m := newTestMaster(t, bus, V2)

	e := m.ReceiveSlaveResponseBlocking(0x20)
	assert.Equal(t, ErrorChecksum, e)
	assert.True(t, errors.Is(e.Err(), ErrChecksum))
	assert.False(t, m.Frame().Valid)
	assert.Equal(t, []byte{0x11, 0x22, 0x33}, m.Frame().Data)

	m.ResetError()
	assert.Equal(t, NoError, m.Error())
	assert.Equal(t, StateDone, m.State())

	m.ResetStateMachine()
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, NoError, m.Error())
}

func TestClassicChecksumRejectedInV2(t *testing.T) {
	bus := newFakeBus()
	bus.response = slaveResponse(t, 0x20, V1, 0x11, 0x22, 0x33)
	m := newTestMaster(t, bus, V2)

	assert.Equal(t, ErrorChecksum, m.ReceiveSlaveResponseBlocking(0x20))
}

func TestDiagnosticFrameUsesClassicChecksum(t *testing.T) {
	bus := newFakeBus()
	bus.response = slaveResponse(t, SlaveResponseDiagID, V1, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08)
	m := newTestMaster(t, bus, V2)

	assert.Equal(t, NoError, m.ReceiveSlaveResponseBlocking(SlaveResponseDiagID))
	m.ResetStateMachine()
	bus.response = nil

	assert.Equal(t, NoError, m.SendMasterRequestBlocking(MasterRequestDiagID, []byte{0x7F, 0x06, 0xB2, 0x00, 0xFF, 0x7F, 0xFF, 0xFF}))
	pid, _ := CalculatePID(MasterRequestDiagID)
	assert.Equal(t, CalculateChecksum(pid, []byte{0x7F, 0x06, 0xB2, 0x00, 0xFF, 0x7F, 0xFF, 0xFF}, V1), bus.sent[len(bus.sent)-1])
}

func TestInvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		id   uint8
		data []byte
	}{
		{"id out of range", 0x40, []byte{0x01}},
		{"no data", 0x10, nil},
		{"too much data", 0x10, make([]byte, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			m := newTestMaster(t, bus, V2)

			assert.Equal(t, StateDone, m.SendMasterRequest(tt.id, tt.data))
			assert.Equal(t, ErrorMisc, m.Error())
			assert.Zero(t, bus.calls)
		})
	}
}

func TestTransportErrors(t *testing.T) {
	ioErr := errors.New("i/o error")
	tests := []struct {
		name  string
		setup func(*fakeBus)
	}{
		{"break", func(b *fakeBus) { b.breakErr = ioErr }},
		{"send", func(b *fakeBus) { b.sendErr = ioErr }},
		{"receive", func(b *fakeBus) { b.recvErr = ioErr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			tt.setup(bus)
			m := newTestMaster(t, bus, V2)

			assert.Equal(t, ErrorMisc, m.SendMasterRequestBlocking(0x10, []byte{0x01}))
			assert.Equal(t, StateDone, m.State())
		})
	}
}

func TestTransmitterEnable(t *testing.T) {
	t.Run("master request", func(t *testing.T) {
		tx := &fakeTxEnable{}
		m := newTestMaster(t, newFakeBus(), V2, WithTxEnable(tx))
		require.Equal(t, NoError, m.SendMasterRequestBlocking(0x10, []byte{0x01}))
		assert.Equal(t, []bool{false, true, false}, tx.calls)
	})

	t.Run("slave response", func(t *testing.T) {
		tx := &fakeTxEnable{}
		bus := newFakeBus()
		bus.response = slaveResponse(t, 0x20, V2, 0x01)
		m := newTestMaster(t, bus, V2, WithTxEnable(tx))

		m.ReceiveSlaveResponse(0x20)
		assert.Equal(t, []bool{false, true}, tx.calls)
		m.Handler() // break echo
		m.Handler() // sync echo
		assert.Equal(t, []bool{false, true}, tx.calls)
		m.Handler() // pid echo
		assert.Equal(t, []bool{false, true, false}, tx.calls)

		for m.Handler() != StateDone {
		}
		assert.Equal(t, NoError, m.Error())
		assert.Equal(t, []bool{false, true, false}, tx.calls)
	})

	t.Run("end mid exchange", func(t *testing.T) {
		tx := &fakeTxEnable{}
		bus := newFakeBus()
		bus.echo = false
		m := newTestMaster(t, bus, V2, WithTxEnable(tx))

		m.SendMasterRequest(0x10, []byte{0x01})
		require.NoError(t, m.End())
		assert.Equal(t, StateOff, m.State())
		assert.Equal(t, []bool{false, true, false}, tx.calls)
	})
}

func TestResetStateMachineAbortsExchange(t *testing.T) {
	tx := &fakeTxEnable{}
	bus := newFakeBus()
	bus.echo = false
	m := newTestMaster(t, bus, V2, WithTxEnable(tx))

	m.SendMasterRequest(0x10, []byte{0x01})
	m.ResetStateMachine()
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, NoError, m.Error())
	assert.Equal(t, []bool{false, true, false}, tx.calls)

	off := NewMaster()
	off.ResetStateMachine()
	assert.Equal(t, StateOff, off.State())
}

func TestHandlerIgnoresIdleAndDone(t *testing.T) {
	bus := newFakeBus()
	bus.rx = []byte{0x55}
	m := newTestMaster(t, bus, V2)

	assert.Equal(t, StateIdle, m.Handler())
	assert.Equal(t, []byte{0x55}, bus.rx)

	require.Equal(t, NoError, m.SendMasterRequestBlocking(0x10, []byte{0x01}))
	bus.rx = []byte{0x55}
	assert.Equal(t, StateDone, m.Handler())
	assert.Equal(t, []byte{0x55}, bus.rx)
	assert.Equal(t, NoError, m.Error())
}

func TestStickyErrors(t *testing.T) {
	bus := newFakeBus()
	bus.echo = false
	m := newTestMaster(t, bus, V2)

	m.SendMasterRequestBlocking(0x10, []byte{0x01})
	m.ResetStateMachine()
	bus.echo = true
	bus.corrupt[3] = 0x00
	m.SendMasterRequestBlocking(0x10, []byte{0x01})

	assert.Equal(t, ErrorTimeout|ErrorEcho, m.Error())
	assert.Equal(t, ErrorEcho, m.FrameError())

	m.ResetStateMachine()
	delete(bus.corrupt, 3)
	assert.Equal(t, ErrorTimeout|ErrorEcho, m.SendMasterRequestBlocking(0x10, []byte{0x01}))
	assert.Equal(t, NoError, m.FrameError())
	assert.True(t, m.Frame().Valid)
}

func TestFrameReturnsCopy(t *testing.T) {
	bus := newFakeBus()
	m := newTestMaster(t, bus, V2)
	require.Equal(t, NoError, m.SendMasterRequestBlocking(0x10, []byte{0x01, 0x02}))

	f := m.Frame()
	f.Data[0] = 0xFF
	assert.Equal(t, []byte{0x01, 0x02}, m.Frame().Data)
}

func TestFrameTimeout(t *testing.T) {
	m := newTestMaster(t, newFakeBus(), V2, WithTimeoutSlack(2*time.Millisecond))

	m.SendMasterRequest(0x10, []byte{0x01})
	// (1 data + 5) bytes * 150%
	assert.Equal(t, 9*m.TimePerByte()+2*time.Millisecond, m.FrameTimeout())

	m.ResetStateMachine()
	m.ReceiveSlaveResponse(0x20)
	assert.Equal(t, 13*m.TimePerByte()*3/2+2*time.Millisecond, m.FrameTimeout())
}

func TestResponseGap(t *testing.T) {
	bus := newFakeBus()
	bus.response = slaveResponse(t, 0x20, V2, 0x11)
	clock := newFakeClock(0)
	m := NewMaster()
	require.NoError(t, m.Begin("gap", bus, testBaud, V2, WithClock(clock), WithResponseGap(4)))

	m.ReceiveSlaveResponse(0x20)
	for i := 0; i < 6; i++ {
		m.Handler()
	}
	require.Equal(t, StateBody, m.State())

	// silence shorter than the gap keeps the frame open
	clock.now = clock.now.Add(4 * m.TimePerByte())
	assert.Equal(t, StateBody, m.Handler())

	clock.now = clock.now.Add(m.TimePerByte())
	assert.Equal(t, StateDone, m.Handler())
	assert.Equal(t, NoError, m.Error())
	assert.Equal(t, []byte{0x11}, m.Frame().Data)
}

func TestContextVariants(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		bus := newFakeBus()
		bus.response = slaveResponse(t, 0x20, V2, 0x11, 0x22, 0x33)
		m := newTestMaster(t, bus, V2)

		f, err := m.ReceiveSlaveResponseContext(context.Background(), 0x20, 3)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x11, 0x22, 0x33}, f.Data)

		// no slave answers a master request
		bus.response = nil
		m.ResetStateMachine()
		require.NoError(t, m.SendMasterRequestContext(context.Background(), 0x10, []byte{0x01}))
		assert.Equal(t, []byte{0x01}, m.Frame().Data)
	})

	t.Run("exchange error", func(t *testing.T) {
		bus := newFakeBus()
		bus.corrupt[1] = 0x54
		m := newTestMaster(t, bus, V2)

		err := m.SendMasterRequestContext(context.Background(), 0x10, []byte{0x01})
		assert.ErrorIs(t, err, ErrEcho)
	})

	t.Run("refused", func(t *testing.T) {
		bus := newFakeBus()
		m := newTestMaster(t, bus, V2)
		m.SendMasterRequest(0x10, []byte{0x01})

		err := m.SendMasterRequestContext(context.Background(), 0x10, []byte{0x01})
		assert.ErrorIs(t, err, ErrStateViolation)
		_, err = m.ReceiveSlaveResponseContext(context.Background(), 0x10, 0)
		assert.ErrorIs(t, err, ErrStateViolation)
	})

	t.Run("already cancelled", func(t *testing.T) {
		bus := newFakeBus()
		m := newTestMaster(t, bus, V2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, m.SendMasterRequestContext(ctx, 0x10, []byte{0x01}), context.Canceled)
		assert.Equal(t, StateIdle, m.State())
		assert.Zero(t, bus.calls)
	})

	t.Run("deadline aborts", func(t *testing.T) {
		bus := newFakeBus()
		bus.echo = false
		m := NewMaster()
		require.NoError(t, m.Begin("ctx", bus, testBaud, V2, WithClock(newFakeClock(0))))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := m.SendMasterRequestContext(ctx, 0x10, []byte{0x01})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, StateDone, m.State())
		assert.Equal(t, ErrorTimeout, m.Error())
	})

	t.Run("cancel aborts", func(t *testing.T) {
		bus := newFakeBus()
		bus.echo = false
		m := NewMaster()
		require.NoError(t, m.Begin("ctx", bus, testBaud, V2, WithClock(newFakeClock(0))))

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := m.ReceiveSlaveResponseContext(ctx, 0x20, 0)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateDone, m.State())
		assert.Equal(t, ErrorMisc, m.Error())
	})
}

func TestStats(t *testing.T) {
	bus := newFakeBus()
	m := newTestMaster(t, bus, V2)

	require.Equal(t, NoError, m.SendMasterRequestBlocking(0x10, []byte{0x01}))
	m.SendMasterRequest(0x10, []byte{0x01}) // refused in Done
	m.ResetStateMachine()

	bus.corrupt[2] = 0x00
	m.SendMasterRequestBlocking(0x10, []byte{0x01})
	m.ResetStateMachine()
	delete(bus.corrupt, 2)

	bus.echo = false
	m.SendMasterRequestBlocking(0x10, []byte{0x01})

	assert.Equal(t, uint64(3), m.Stats(CntExchanges))
	assert.Equal(t, uint64(1), m.Stats(CntCompleted))
	assert.Equal(t, uint64(1), m.Stats(CntRejected))
	assert.Equal(t, uint64(1), m.Stats(CntErrEcho))
	assert.Equal(t, uint64(1), m.Stats(CntErrTimeout))
	assert.Equal(t, uint64(0), m.Stats(CntErrChecksum))
	assert.Len(t, m.AllStats(), CntNum)

	m.ResetStats()
	for _, v := range m.AllStats() {
		assert.Zero(t, v)
	}
	assert.Zero(t, m.Stats(Counter(CntNum)))
}
