package lin

import "fmt"

// Frame is one LIN exchange as seen by the master
type Frame struct {
	ID       uint8
	Type     FrameType
	PID      uint8
	Data     []byte
	Checksum uint8
	Valid    bool // set only after the checksum has been verified
}

func (f Frame) String() string {
	return fmt.Sprintf("id=0x%02X pid=0x%02X %s data=% X chk=0x%02X valid=%v",
		f.ID, f.PID, f.Type, f.Data, f.Checksum, f.Valid)
}

// CalculatePID protects a 6-bit identifier with the two LIN parity bits:
// P0 = ID0^ID1^ID2^ID4 in bit 6 and P1 = ¬(ID1^ID3^ID4^ID5) in bit 7.
func CalculatePID(id uint8) (uint8, error) {
	if id > MaxID {
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidID, id)
	}
	return protect(id), nil
}

func protect(id uint8) uint8 {
	id &= MaxID
	p0 := (id ^ id>>1 ^ id>>2 ^ id>>4) & 0x01
	p1 := ^(id>>1 ^ id>>3 ^ id>>4 ^ id>>5) & 0x01
	return id | p0<<6 | p1<<7
}

// ParsePID recovers the identifier from a protected identifier and checks
// its parity bits.
func ParsePID(pid uint8) (uint8, error) {
	id := pid & MaxID
	if protect(id) != pid {
		return id, fmt.Errorf("%w: 0x%02X", ErrParity, pid)
	}
	return id, nil
}

// isClassicOnly reports whether a protected identifier belongs to a
// diagnostic frame, which always uses the classic checksum.
func isClassicOnly(pid uint8) bool {
	id := pid & MaxID
	return id == MasterRequestDiagID || id == SlaveResponseDiagID
}

// CalculateChecksum returns the inverted 8-bit sum with end-around carry
// over data, and for V2 non-diagnostic frames also over pid.
func CalculateChecksum(pid uint8, data []byte, version Version) uint8 {
	var sum uint16
	if version == V2 && !isClassicOnly(pid) {
		sum = uint16(pid)
	}
	for _, b := range data {
		sum += uint16(b)
		if sum > 0xFF {
			sum -= 0xFF
		}
	}
	return 0xFF - uint8(sum)
}

// CheckFrame verifies the protected identifier and checksum of a frame.
// Either mismatch is reported as ErrorChecksum; a bad identifier or data
// length as ErrorMisc.
func CheckFrame(f Frame, version Version) Error {
	if f.ID > MaxID || len(f.Data) == 0 || len(f.Data) > MaxDataLen {
		return ErrorMisc
	}
	if protect(f.ID) != f.PID {
		return ErrorChecksum
	}
	if CalculateChecksum(f.PID, f.Data, version) != f.Checksum {
		return ErrorChecksum
	}
	return NoError
}

// NewFrame builds a complete, valid master request frame
func NewFrame(id uint8, data []byte, version Version) (Frame, error) {
	pid, err := CalculatePID(id)
	if err != nil {
		return Frame{}, err
	}
	if len(data) == 0 || len(data) > MaxDataLen {
		return Frame{}, fmt.Errorf("%w: data length %d", ErrInvalidConfig, len(data))
	}
	d := make([]byte, len(data))
	copy(d, data)
	return Frame{
		ID:       id,
		Type:     MasterRequest,
		PID:      pid,
		Data:     d,
		Checksum: CalculateChecksum(pid, d, version),
		Valid:    true,
	}, nil
}

// Bytes returns the frame as transmitted after the break: sync, PID, data
// and checksum.
func (f Frame) Bytes() []byte {
	b := make([]byte, 0, len(f.Data)+3)
	b = append(b, SyncByte, f.PID)
	b = append(b, f.Data...)
	return append(b, f.Checksum)
}
