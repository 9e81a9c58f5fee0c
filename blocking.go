package lin

import (
	"context"
	"errors"
	"runtime"

	"github.com/golang/glog"
)

// SendMasterRequestBlocking sends a master request and runs Handler until
// the exchange is done. It returns the sticky error set.
func (m *Master) SendMasterRequestBlocking(id uint8, data []byte) Error {
	if m.request(MasterRequest, id, data, 0) {
		m.wait()
	}
	return m.err
}

// ReceiveSlaveResponseBlocking requests a slave response of unknown length
// and runs Handler until the exchange is done. The data is available from
// Frame. It returns the sticky error set.
func (m *Master) ReceiveSlaveResponseBlocking(id uint8) Error {
	if m.request(SlaveResponse, id, nil, 0) {
		m.wait()
	}
	return m.err
}

// ReceiveSlaveResponseLenBlocking is ReceiveSlaveResponseBlocking for a
// response of exactly n data bytes.
func (m *Master) ReceiveSlaveResponseLenBlocking(id uint8, n int) Error {
	if n < 1 || n > MaxDataLen {
		n = -1
	}
	if m.request(SlaveResponse, id, nil, n) {
		m.wait()
	}
	return m.err
}

// safetyTimeout bounds the blocking loops beyond the frame timeout, so a
// Handler that never reaches StateDone still cannot hang the caller.
func (m *Master) safetyTimeout() bool {
	return m.clock.Since(m.timeStart) > m.timeMax+m.timePerByte
}

func (m *Master) wait() {
	for m.Handler() != StateDone {
		if m.safetyTimeout() {
			glog.V(1).Infof("lin %s: blocking wait expired in %s", m.name, m.state)
			m.finish(ErrorTimeout)
			return
		}
		runtime.Gosched()
	}
}

// SendMasterRequestContext sends a master request and waits for it to
// finish or for ctx to be done. The returned error covers this exchange
// only: nil on success, the Err of the exchange's Error set, or the
// context error after aborting the exchange.
func (m *Master) SendMasterRequestContext(ctx context.Context, id uint8, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.request(MasterRequest, id, data, 0) {
		return ErrorState.Err()
	}
	return m.waitContext(ctx)
}

// ReceiveSlaveResponseContext requests a slave response and waits for it
// like SendMasterRequestContext. n is the expected number of data bytes,
// or 0 when unknown. The received frame is returned even on a checksum
// error, with Valid unset.
func (m *Master) ReceiveSlaveResponseContext(ctx context.Context, id uint8, n int) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if n < 0 || n > MaxDataLen {
		n = -1
	}
	if !m.request(SlaveResponse, id, nil, n) {
		return Frame{}, ErrorState.Err()
	}
	err := m.waitContext(ctx)
	return m.Frame(), err
}

func (m *Master) waitContext(ctx context.Context) error {
	for m.Handler() != StateDone {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				m.finish(ErrorTimeout)
			} else {
				m.finish(ErrorMisc)
			}
			glog.V(1).Infof("lin %s: exchange 0x%02X aborted: %v", m.name, m.id, ctx.Err())
			return ctx.Err()
		default:
		}
		if m.safetyTimeout() {
			m.finish(ErrorTimeout)
			break
		}
		runtime.Gosched()
	}
	return m.frameErr.Err()
}
