package lin

import "fmt"

const (
	// SyncByte is the fixed byte following the break in every header
	SyncByte = 0x55

	// MaxID is the largest unprotected frame identifier
	MaxID = 0x3F

	// MaxDataLen bounds the data field of a frame
	MaxDataLen = 8

	// Diagnostic identifiers, always checksummed with the classic algorithm
	MasterRequestDiagID = 0x3C
	SlaveResponseDiagID = 0x3D

	// break + sync + PID + 8 data + checksum
	maxFrameLen = 4 + MaxDataLen
	headerLen   = 3

	// bit times per byte on the wire, start + 8 data + stop
	bitsPerByte = 10
)

// Version selects the checksum dialect
type Version int

const (
	V1 Version = 1 // classic checksum over data bytes only
	V2 Version = 2 // enhanced checksum including the protected identifier
)

func (v Version) String() string {
	switch v {
	case V1:
		return "LIN1.x"
	case V2:
		return "LIN2.x"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// ParseVersion accepts "1", "2", "v1", "v2", "1.3", "2.2" and similar
func ParseVersion(s string) (Version, error) {
	switch s {
	case "1", "v1", "V1", "1.x", "1.3":
		return V1, nil
	case "2", "v2", "V2", "2.x", "2.0", "2.1", "2.2":
		return V2, nil
	}
	return 0, fmt.Errorf("%w: unknown LIN version %q", ErrInvalidConfig, s)
}

// FrameType is the direction of the data phase relative to the master
type FrameType int

const (
	MasterRequest FrameType = iota // master sends header and data
	SlaveResponse                  // master sends header, a slave answers with data
)

func (t FrameType) String() string {
	switch t {
	case MasterRequest:
		return "master request"
	case SlaveResponse:
		return "slave response"
	default:
		return fmt.Sprintf("FrameType(%d)", int(t))
	}
}

// State is the phase of the current or most recent exchange
type State int

const (
	StateOff   State = iota // Begin not called, or End called
	StateIdle               // ready for a request
	StateBreak              // break sent, waiting for its echo
	StateBody               // sync, PID, data and checksum in flight
	StateDone               // exchange finished, successfully or not
)

func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateIdle:
		return "idle"
	case StateBreak:
		return "break"
	case StateBody:
		return "body"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
