package lin

import "sync"

// Counter indexes the exchange statistics kept by a Master
type Counter int

const (
	CntExchanges   Counter = iota // requests accepted and started
	CntCompleted                  // exchanges finished without error
	CntRejected                   // requests refused with ErrorState
	CntErrEcho                    // exchanges ended by ErrorEcho
	CntErrTimeout                 // exchanges ended by ErrorTimeout
	CntErrChecksum                // exchanges ended by ErrorChecksum
	CntErrMisc                    // exchanges ended by ErrorMisc

	CntNum = iota
)

func (c Counter) String() string {
	switch c {
	case CntExchanges:
		return "exchanges"
	case CntCompleted:
		return "completed"
	case CntRejected:
		return "rejected"
	case CntErrEcho:
		return "echo errors"
	case CntErrTimeout:
		return "timeouts"
	case CntErrChecksum:
		return "checksum errors"
	case CntErrMisc:
		return "misc errors"
	}
	return "unknown"
}

// counters may be read from another goroutine than the one driving the
// Master, e.g. a status display.
type counters struct {
	sync.Mutex
	ca [CntNum]uint64
}

func (c *counters) Inc(cnt Counter) {
	c.Lock()
	defer c.Unlock()
	if cnt < 0 || int(cnt) >= len(c.ca) {
		return
	}
	c.ca[cnt]++
}

func (c *counters) Get(cnt Counter) uint64 {
	c.Lock()
	defer c.Unlock()
	if cnt < 0 || int(cnt) >= len(c.ca) {
		return 0
	}
	return c.ca[cnt]
}

func (c *counters) GetAll() []uint64 {
	c.Lock()
	defer c.Unlock()
	r := make([]uint64, len(c.ca))
	copy(r, c.ca[:])
	return r
}

func (c *counters) RstAll() {
	c.Lock()
	defer c.Unlock()
	for i := range c.ca {
		c.ca[i] = 0
	}
}

// incErrors counts each error bit that ended an exchange
func (c *counters) incErrors(e Error) {
	if e == NoError {
		c.Inc(CntCompleted)
		return
	}
	if e&ErrorEcho != 0 {
		c.Inc(CntErrEcho)
	}
	if e&ErrorTimeout != 0 {
		c.Inc(CntErrTimeout)
	}
	if e&ErrorChecksum != 0 {
		c.Inc(CntErrChecksum)
	}
	if e&ErrorMisc != 0 {
		c.Inc(CntErrMisc)
	}
}

// Stats returns the value of a single counter
func (m *Master) Stats(cnt Counter) uint64 {
	return m.cnt.Get(cnt)
}

// AllStats returns a snapshot of every counter, indexed by Counter
func (m *Master) AllStats() []uint64 {
	return m.cnt.GetAll()
}

// ResetStats zeroes all counters
func (m *Master) ResetStats() {
	m.cnt.RstAll()
}
