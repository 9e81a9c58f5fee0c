/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/allbin/go-lin"
	"github.com/avast/retry-go"
	"github.com/golang/glog"
	"github.com/spf13/viper"
)

// bus is an open serial transport with a master bound to it
type bus struct {
	port      string
	master    *lin.Master
	transport *lin.SerialTransport
}

// busSettings is the viper view of the persistent bus flags
type busSettings struct {
	Port         string
	Baud         int
	Version      lin.Version
	Break        lin.BreakMode
	TxEnable     string
	TimeoutSlack time.Duration
	Retries      uint
}

func loadBusSettings() (busSettings, error) {
	s := busSettings{
		Port:         viper.GetString(flagPort),
		Baud:         viper.GetInt(flagBaud),
		TxEnable:     strings.ToLower(viper.GetString(flagTxEnable)),
		TimeoutSlack: viper.GetDuration(flagTimeoutSlack),
	}

	var err error
	if s.Version, err = lin.ParseVersion(viper.GetString(flagVersion)); err != nil {
		return s, err
	}
	if s.Break, err = lin.ParseBreakMode(viper.GetString(flagBreak)); err != nil {
		return s, err
	}
	switch s.TxEnable {
	case "", "none", "rts", "rts-inverted":
	default:
		return s, fmt.Errorf("unknown transmitter enable line %q", s.TxEnable)
	}

	retries := viper.GetInt(flagRetries)
	if retries < 1 {
		retries = 1
	}
	s.Retries = uint(retries)
	return s, nil
}

// openBus opens the configured port and starts a master on it
func openBus(s busSettings) (*bus, error) {
	t, err := lin.OpenSerial(s.Port, s.Baud, s.Break)
	if err != nil {
		return nil, err
	}

	opts := []lin.Option{lin.WithTimeoutSlack(s.TimeoutSlack)}
	switch s.TxEnable {
	case "rts":
		opts = append(opts, lin.WithTxEnable(lin.RTSLine{Port: t.Port()}))
	case "rts-inverted":
		opts = append(opts, lin.WithTxEnable(lin.RTSLine{Port: t.Port(), Invert: true}))
	}

	m := lin.NewMaster()
	if err := m.Begin(s.Port, t, s.Baud, s.Version, opts...); err != nil {
		t.Close()
		return nil, err
	}
	return &bus{port: s.Port, master: m, transport: t}, nil
}

func (b *bus) Close() error {
	b.master.End()
	return b.transport.Close()
}

// retryable reports whether another attempt can help. Timeouts and
// corrupted frames are transient; a refused or malformed request is not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, lin.ErrTimeout) || errors.Is(err, lin.ErrChecksum) || errors.Is(err, lin.ErrEcho)
}

// exchange runs fn up to attempts times while it fails with a retryable error
func (b *bus) exchange(ctx context.Context, attempts uint, fn func(ctx context.Context, m *lin.Master) error) error {
	return retry.Do(
		func() error {
			b.master.ResetStateMachine()
			return fn(ctx, b.master)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(10*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			glog.V(1).Infof("%s: attempt %d failed: %v", b.port, n+1, err)
		}),
	)
}

// parseID accepts a frame id in decimal or 0x-prefixed hex
func parseID(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid frame id %q", s)
	}
	if v > lin.MaxID {
		return 0, fmt.Errorf("%w: 0x%02X", lin.ErrInvalidID, v)
	}
	return uint8(v), nil
}

// parseLen accepts a response length of 1-8 data bytes
func parseLen(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > lin.MaxDataLen {
		return 0, fmt.Errorf("invalid response length %q, want 1-%d", s, lin.MaxDataLen)
	}
	return n, nil
}

// parseHexInput converts hex strings to bytes. Supports both:
// - Space-separated: "48 65 6C 6C 6F"
// - Continuous: "48656C6C6F"
// Each space-separated token may carry a 0x or 0X prefix.
func parseHexInput(hexStr string) ([]byte, error) {
	var sb strings.Builder
	for _, tok := range strings.Fields(hexStr) {
		if len(tok) > 2 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X') {
			tok = tok[2:]
		}
		sb.WriteString(tok)
	}
	cleanHex := sb.String()
	if len(cleanHex) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	for _, char := range cleanHex {
		if !((char >= '0' && char <= '9') || (char >= 'A' && char <= 'F') || (char >= 'a' && char <= 'f')) {
			return nil, fmt.Errorf("invalid hex character '%c'", char)
		}
	}

	if len(cleanHex)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even number of digits (got %d)", len(cleanHex))
	}

	bytes := make([]byte, 0, len(cleanHex)/2)
	for i := 0; i < len(cleanHex); i += 2 {
		hexByte := cleanHex[i : i+2]
		b, err := strconv.ParseUint(hexByte, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte '%s': %v", hexByte, err)
		}
		bytes = append(bytes, byte(b))
	}
	return bytes, nil
}

// parseFrameData parses a master request payload of 1-8 bytes
func parseFrameData(args []string) ([]byte, error) {
	data, err := parseHexInput(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	if len(data) > lin.MaxDataLen {
		return nil, fmt.Errorf("frame data is %d bytes, max %d", len(data), lin.MaxDataLen)
	}
	return data, nil
}
