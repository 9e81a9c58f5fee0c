package lin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Flusher is implemented by transports that can discard stale received
// bytes. A Master flushes before every break so old line noise cannot be
// mistaken for an echo.
type Flusher interface {
	Flush() error
}

// Master drives frame exchanges on one LIN bus. It is not safe for
// concurrent use; all calls must come from one goroutine or be serialized
// by the caller.
type Master struct {
	name      string
	transport Transport
	txen      TxEnabler
	clock     Clock
	cfg       Config

	version     Version
	baudrate    int
	timePerByte time.Duration
	timeMax     time.Duration
	timeStart   time.Time
	timeLastRx  time.Time

	state    State
	err      Error // sticky across exchanges
	frameErr Error // current exchange only

	typ   FrameType
	id    uint8
	bufTx [maxFrameLen]byte
	lenTx int
	bufRx [maxFrameLen]byte
	numRx int
	lenRx int // expected bytes including echo, 0 when unknown
	txOn  bool

	frame Frame
	cnt   counters
}

// NewMaster returns a Master in StateOff
func NewMaster() *Master {
	return &Master{}
}

// Begin binds the master to a transport and makes it ready for requests.
// Any previous session is discarded, including the error set.
func (m *Master) Begin(name string, t Transport, baudrate int, version Version, opts ...Option) error {
	if t == nil {
		return ErrNoTransport
	}
	if baudrate < 1000 || baudrate > 20000 {
		return fmt.Errorf("%w: %d", ErrInvalidBaudRate, baudrate)
	}
	if version != V1 && version != V2 {
		return fmt.Errorf("%w: version %d", ErrInvalidConfig, int(version))
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return err
		}
	}

	*m = Master{
		name:        name,
		transport:   t,
		txen:        cfg.TxEnable,
		clock:       cfg.Clock,
		cfg:         cfg,
		version:     version,
		baudrate:    baudrate,
		timePerByte: bitsPerByte * time.Second / time.Duration(baudrate),
		state:       StateOff,
	}

	// transceiver starts in listen mode
	if m.txen != nil {
		if err := m.txen.SetTxEnable(false); err != nil {
			return fmt.Errorf("failed to release transmitter: %w", err)
		}
	}

	m.setState(StateIdle)
	glog.V(1).Infof("lin %s: begin %d baud %s, %v per byte", m.name, baudrate, version, m.timePerByte)
	return nil
}

// End stops the master and releases the transceiver. The transport itself
// is owned by the caller and stays open.
func (m *Master) End() error {
	var errs []error
	if m.state == StateBreak || m.state == StateBody {
		errs = append(errs, m.abortTransport())
	}
	if m.txOn {
		errs = append(errs, m.setTx(false))
	}
	m.setState(StateOff)
	return errors.Join(errs...)
}

// Name returns the bus name given to Begin
func (m *Master) Name() string { return m.name }

// Version returns the checksum dialect in use
func (m *Master) Version() Version { return m.version }

// BaudRate returns the bus speed given to Begin
func (m *Master) BaudRate() int { return m.baudrate }

// TimePerByte returns the duration of one byte on the wire
func (m *Master) TimePerByte() time.Duration { return m.timePerByte }

// FrameTimeout returns the timeout of the current or most recent exchange
func (m *Master) FrameTimeout() time.Duration { return m.timeMax }

// State returns the state machine state
func (m *Master) State() State { return m.state }

// Error returns the sticky error set
func (m *Master) Error() Error { return m.err }

// FrameError returns the errors of the current or most recent exchange
func (m *Master) FrameError() Error { return m.frameErr }

// Frame returns a copy of the most recent frame. It is only meaningful in
// StateDone with FrameError() == NoError, which Frame.Valid reflects.
func (m *Master) Frame() Frame {
	f := m.frame
	if f.Data != nil {
		f.Data = append([]byte(nil), f.Data...)
	}
	return f
}

// ResetError clears the sticky error set without touching the state
func (m *Master) ResetError() {
	m.err = NoError
}

// ResetStateMachine returns to StateIdle, aborting an exchange in
// progress. It has no effect in StateOff.
func (m *Master) ResetStateMachine() {
	switch m.state {
	case StateOff:
		return
	case StateBreak, StateBody:
		glog.V(1).Infof("lin %s: abort 0x%02X in %s", m.name, m.id, m.state)
		if err := m.abortTransport(); err != nil {
			glog.V(1).Infof("lin %s: %v", m.name, err)
		}
		if m.txOn {
			if err := m.setTx(false); err != nil {
				glog.V(1).Infof("lin %s: %v", m.name, err)
			}
		}
	}
	m.setState(StateIdle)
}

// SendMasterRequest starts a frame carrying data from the master. Call
// Handler until it returns StateDone.
func (m *Master) SendMasterRequest(id uint8, data []byte) State {
	m.request(MasterRequest, id, data, 0)
	return m.state
}

// ReceiveSlaveResponse sends a header and collects the response of a slave
// whose length is not known. The response ends after 8 data bytes and the
// checksum, or when the bus stays silent for the configured response gap.
func (m *Master) ReceiveSlaveResponse(id uint8) State {
	m.request(SlaveResponse, id, nil, 0)
	return m.state
}

// ReceiveSlaveResponseLen sends a header and collects exactly n data bytes
// plus the checksum.
func (m *Master) ReceiveSlaveResponseLen(id uint8, n int) State {
	if n < 1 || n > MaxDataLen {
		m.request(SlaveResponse, id, nil, -1)
	} else {
		m.request(SlaveResponse, id, nil, n)
	}
	return m.state
}

// request arms a new exchange and sends the break. It reports whether the
// request was accepted; a refused request changes nothing but the error set.
func (m *Master) request(typ FrameType, id uint8, data []byte, respLen int) bool {
	if m.state != StateIdle {
		m.err |= ErrorState
		m.cnt.Inc(CntRejected)
		glog.V(1).Infof("lin %s: request 0x%02X refused in %s", m.name, id, m.state)
		return false
	}

	m.cnt.Inc(CntExchanges)
	m.frameErr = NoError
	m.typ = typ
	m.id = id
	m.numRx = 0
	m.frame = Frame{ID: id, Type: typ}
	m.timeStart = m.clock.Now()

	if id > MaxID {
		glog.V(1).Infof("lin %s: invalid id 0x%02X", m.name, id)
		m.finish(ErrorMisc)
		return true
	}
	if (typ == MasterRequest && (len(data) == 0 || len(data) > MaxDataLen)) || respLen < 0 {
		glog.V(1).Infof("lin %s: invalid length for 0x%02X", m.name, id)
		m.finish(ErrorMisc)
		return true
	}

	pid := protect(id)
	m.frame.PID = pid
	m.bufTx[0] = 0x00
	m.bufTx[1] = SyncByte
	m.bufTx[2] = pid

	numData := MaxDataLen
	switch typ {
	case MasterRequest:
		numData = len(data)
		copy(m.bufTx[headerLen:], data)
		m.lenTx = headerLen + numData + 1
		m.bufTx[m.lenTx-1] = CalculateChecksum(pid, data, m.version)
		m.lenRx = m.lenTx
	case SlaveResponse:
		m.lenTx = headerLen
		m.lenRx = 0
		if respLen > 0 {
			numData = respLen
			m.lenRx = headerLen + respLen + 1
		}
	}
	m.timeMax = m.frameTimeout(numData)

	if f, ok := m.transport.(Flusher); ok {
		if err := f.Flush(); err != nil {
			m.fault(err)
			return true
		}
	}
	if err := m.setTx(true); err != nil {
		m.fault(err)
		return true
	}
	if err := m.transport.SendBreak(); err != nil {
		m.fault(err)
		return true
	}
	glog.V(2).Infof("lin %s: %s 0x%02X % X", m.name, typ, id, m.bufTx[:m.lenTx])
	m.setState(StateBreak)
	return true
}

// frameTimeout is 150% of the nominal time for break, sync, PID, n data
// bytes, checksum and one spare byte.
func (m *Master) frameTimeout(n int) time.Duration {
	bytes := time.Duration(n + 4 + 1)
	return bytes*m.timePerByte*3/2 + m.cfg.TimeoutSlack
}

// Handler advances the current exchange by at most one received byte or
// one timeout check and returns the resulting state. It never blocks and
// may be called from a poll loop or a byte-received callback.
func (m *Master) Handler() State {
	switch m.state {
	case StateBreak:
		m.handleBreak()
	case StateBody:
		m.handleBody()
	}
	return m.state
}

func (m *Master) handleBreak() {
	b, ok, err := m.transport.TryReceiveByte()
	if err != nil {
		m.fault(err)
		return
	}
	if !ok {
		m.checkTimeout()
		return
	}

	m.bufRx[0] = b
	m.numRx = 1
	m.timeLastRx = m.clock.Now()
	if b != m.bufTx[0] {
		glog.V(1).Infof("lin %s: break echo 0x%02X", m.name, b)
		m.finish(ErrorEcho)
		return
	}

	for _, c := range m.bufTx[1:m.lenTx] {
		if err := m.transport.SendByte(c); err != nil {
			m.fault(err)
			return
		}
	}
	m.setState(StateBody)
}

func (m *Master) handleBody() {
	b, ok, err := m.transport.TryReceiveByte()
	if err != nil {
		m.fault(err)
		return
	}
	if !ok {
		// at least one data byte and the checksum, then silence
		if m.lenRx == 0 && m.numRx >= headerLen+2 &&
			m.clock.Since(m.timeLastRx) > time.Duration(m.cfg.ResponseGap)*m.timePerByte {
			m.complete()
			return
		}
		m.checkTimeout()
		return
	}

	i := m.numRx
	m.bufRx[i] = b
	m.numRx++
	m.timeLastRx = m.clock.Now()
	glog.V(3).Infof("lin %s: rx[%d] 0x%02X", m.name, i, b)

	if i < m.lenTx {
		if b != m.bufTx[i] {
			glog.V(1).Infof("lin %s: echo mismatch at %d: sent 0x%02X, read 0x%02X", m.name, i, m.bufTx[i], b)
			m.finish(ErrorEcho)
			return
		}
		// header is out, stop driving the bus for the slave
		if i == m.lenTx-1 && m.typ == SlaveResponse {
			if err := m.setTx(false); err != nil {
				m.fault(err)
				return
			}
		}
	}

	if m.numRx == m.lenRx || m.numRx == maxFrameLen {
		m.complete()
	}
}

// complete validates the received frame and ends the exchange
func (m *Master) complete() {
	n := m.numRx - headerLen - 1
	f := Frame{
		ID:       m.id,
		Type:     m.typ,
		PID:      m.bufRx[2],
		Data:     append([]byte(nil), m.bufRx[headerLen:headerLen+n]...),
		Checksum: m.bufRx[m.numRx-1],
	}
	res := CheckFrame(f, m.version)
	f.Valid = res == NoError
	m.frame = f
	if res != NoError {
		glog.V(1).Infof("lin %s: bad frame %v", m.name, f)
	}
	m.finish(res)
}

func (m *Master) checkTimeout() {
	if m.clock.Since(m.timeStart) > m.timeMax {
		glog.V(1).Infof("lin %s: timeout for 0x%02X in %s after %d bytes", m.name, m.id, m.state, m.numRx)
		m.finish(ErrorTimeout)
	}
}

// fault ends the exchange on a transport failure
func (m *Master) fault(err error) {
	glog.V(1).Infof("lin %s: transport: %v", m.name, err)
	m.finish(ErrorMisc)
}

// finish records e and moves to StateDone
func (m *Master) finish(e Error) {
	m.frameErr |= e
	m.err |= e
	if e != NoError && (m.state == StateBreak || m.state == StateBody) {
		if err := m.abortTransport(); err != nil {
			glog.V(1).Infof("lin %s: %v", m.name, err)
			m.frameErr |= ErrorMisc
			m.err |= ErrorMisc
		}
	}
	if m.txOn {
		if err := m.setTx(false); err != nil {
			glog.V(1).Infof("lin %s: %v", m.name, err)
			m.frameErr |= ErrorMisc
			m.err |= ErrorMisc
		}
	}
	m.cnt.incErrors(m.frameErr)
	if m.frameErr == NoError {
		glog.V(2).Infof("lin %s: done %v", m.name, m.frame)
	}
	m.setState(StateDone)
}

// abortTransport returns the bus to idle after an unfinished exchange
func (m *Master) abortTransport() error {
	a, ok := m.transport.(Aborter)
	if !ok {
		return nil
	}
	if err := a.Abort(); err != nil {
		return fmt.Errorf("failed to abort transport: %w", err)
	}
	return nil
}

func (m *Master) setTx(on bool) error {
	if m.txen == nil {
		return nil
	}
	if err := m.txen.SetTxEnable(on); err != nil {
		return fmt.Errorf("failed to set transmitter enable: %w", err)
	}
	m.txOn = on
	return nil
}

func (m *Master) setState(s State) {
	if m.state != s {
		glog.V(3).Infof("lin %s: %s -> %s", m.name, m.state, s)
	}
	m.state = s
}
