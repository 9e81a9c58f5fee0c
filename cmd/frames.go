/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-lin"
)

// frameSpec describes one exchange to perform. On the command line it is
// written as
//
//	0x20       slave response of unknown length
//	0x20:4     slave response of 4 data bytes
//	0x10=0102  master request carrying 01 02
type frameSpec struct {
	ID   uint8
	Type lin.FrameType
	Data []byte
	Len  int
}

func parseFrameSpec(s string) (frameSpec, error) {
	s = strings.TrimSpace(s)
	if id, data, ok := strings.Cut(s, "="); ok {
		e := frameSpec{Type: lin.MasterRequest}
		var err error
		if e.ID, err = parseID(id); err != nil {
			return e, err
		}
		if e.Data, err = parseFrameData([]string{data}); err != nil {
			return e, fmt.Errorf("frame %q: %w", s, err)
		}
		return e, nil
	}

	e := frameSpec{Type: lin.SlaveResponse}
	id, n, hasLen := strings.Cut(s, ":")
	var err error
	if e.ID, err = parseID(id); err != nil {
		return e, err
	}
	if hasLen {
		if e.Len, err = parseLen(n); err != nil {
			return e, fmt.Errorf("frame %q: %w", s, err)
		}
	}
	return e, nil
}

func (e frameSpec) String() string {
	switch {
	case e.Type == lin.MasterRequest:
		return fmt.Sprintf("0x%02X=%X", e.ID, e.Data)
	case e.Len > 0:
		return fmt.Sprintf("0x%02X:%d", e.ID, e.Len)
	default:
		return fmt.Sprintf("0x%02X", e.ID)
	}
}

// run performs the exchange on m, which must be idle
func (e frameSpec) run(ctx context.Context, m *lin.Master) (lin.Frame, error) {
	if e.Type == lin.MasterRequest {
		err := m.SendMasterRequestContext(ctx, e.ID, e.Data)
		return m.Frame(), err
	}
	return m.ReceiveSlaveResponseContext(ctx, e.ID, e.Len)
}

// frameRecord is a frame as written to a capture file:
// 15:04:05.000000 o 0x10 pid=50 len=2 01 02 chk=AC ok
func frameRecord(ts time.Time, f lin.Frame, err error) string {
	dir := "i"
	if f.Type == lin.MasterRequest {
		dir = "o"
	}
	status := "ok"
	if err != nil {
		status = strings.ReplaceAll(lin.ErrorOf(err).String(), "|", ",")
	}
	return fmt.Sprintf("%s %s 0x%02X pid=%02X len=%d % X chk=%02X %s",
		ts.Format("15:04:05.000000"), dir, f.ID, f.PID, len(f.Data), f.Data, f.Checksum, status)
}
