package lin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePID(t *testing.T) {
	tests := []struct {
		id  uint8
		pid uint8
	}{
		{0x00, 0x80},
		{0x01, 0xC1},
		{0x10, 0x50},
		{0x12, 0x92},
		{0x20, 0x20},
		{0x2A, 0x6A},
		{0x3C, 0x3C},
		{0x3D, 0x7D},
		{0x3F, 0xBF},
	}

	for _, tt := range tests {
		pid, err := CalculatePID(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.pid, pid, "id 0x%02X", tt.id)
	}

	_, err := CalculatePID(0x40)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestPIDRoundTrip(t *testing.T) {
	for id := uint8(0); id <= MaxID; id++ {
		pid, err := CalculatePID(id)
		require.NoError(t, err)

		got, err := ParsePID(pid)
		require.NoError(t, err, "pid 0x%02X", pid)
		assert.Equal(t, id, got)

		p0 := (id ^ id>>1 ^ id>>2 ^ id>>4) & 1
		p1 := ^(id>>1 ^ id>>3 ^ id>>4 ^ id>>5) & 1
		assert.Equal(t, p0, pid>>6&1, "P0 of id 0x%02X", id)
		assert.Equal(t, p1, pid>>7, "P1 of id 0x%02X", id)
	}
}

func TestParsePIDParity(t *testing.T) {
	pid, err := CalculatePID(0x20)
	require.NoError(t, err)

	for _, bad := range []uint8{pid ^ 0x40, pid ^ 0x80, pid ^ 0xC0} {
		id, err := ParsePID(bad)
		assert.ErrorIs(t, err, ErrParity, "pid 0x%02X", bad)
		assert.Equal(t, uint8(0x20), id)
	}
}

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name    string
		pid     uint8
		data    []byte
		version Version
		want    uint8
	}{
		{"classic single byte", 0x50, []byte{0x01}, V1, 0xFE},
		{"enhanced single byte", 0x50, []byte{0x01}, V2, 0xAE},
		{"enhanced reference frame", 0x4A, []byte{0x55, 0x93, 0xE5}, V2, 0xE6},
		{"enhanced three bytes", 0x20, []byte{0x11, 0x22, 0x33}, V2, 0x79},
		{"classic three bytes", 0x20, []byte{0x11, 0x22, 0x33}, V1, 0x99},
		{"carry wraps", 0x6A, []byte{0x80, 0x80}, V1, 0xFE},
		{"enhanced with carry", 0x6A, []byte{0x80, 0x80}, V2, 0x94},
		{"enhanced four bytes", 0x92, []byte{0x4A, 0x55, 0x93, 0xE5}, V2, 0x54},
		{"diagnostic request stays classic", 0x3C, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, V2, 0x00},
		{"diagnostic response stays classic", 0x7D, []byte{0x01, 0x02, 0x03}, V2, 0xF9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateChecksum(tt.pid, tt.data, tt.version))
		})
	}
}

func TestChecksumPIDDependence(t *testing.T) {
	payloads := [][]byte{
		{0x00},
		{0xFF},
		{0x01, 0x02},
		{0x11, 0x22, 0x33},
		{0xDE, 0xAD, 0xBE, 0xEF},
		{0x80, 0x80, 0x80, 0x80, 0x80},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		{0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	}
	pidA, _ := CalculatePID(0x10)
	pidB, _ := CalculatePID(0x11)

	for _, data := range payloads {
		assert.Equal(t, CalculateChecksum(pidA, data, V1), CalculateChecksum(pidB, data, V1),
			"classic checksum of % X depends on pid", data)
		assert.NotEqual(t, CalculateChecksum(pidA, data, V2), CalculateChecksum(pidB, data, V2),
			"enhanced checksum of % X ignores pid", data)
	}

	for _, data := range payloads {
		assert.Equal(t, CalculateChecksum(0x3C, data, V1), CalculateChecksum(0x3C, data, V2))
		assert.Equal(t, CalculateChecksum(0x7D, data, V1), CalculateChecksum(0x7D, data, V2))
	}
}

func TestCheckFrame(t *testing.T) {
	good, err := NewFrame(0x20, []byte{0x11, 0x22, 0x33}, V2)
	require.NoError(t, err)
	assert.True(t, good.Valid)
	assert.Equal(t, uint8(0x79), good.Checksum)
	assert.Equal(t, NoError, CheckFrame(good, V2))

	// checksum computed for the other dialect
	assert.Equal(t, ErrorChecksum, CheckFrame(good, V1))

	badChk := good
	badChk.Checksum ^= 0x01
	assert.Equal(t, ErrorChecksum, CheckFrame(badChk, V2))

	badPID := good
	badPID.PID ^= 0x80
	assert.Equal(t, ErrorChecksum, CheckFrame(badPID, V2))

	empty := good
	empty.Data = nil
	assert.Equal(t, ErrorMisc, CheckFrame(empty, V2))

	badID := good
	badID.ID = 0x40
	assert.Equal(t, ErrorMisc, CheckFrame(badID, V2))
}

func TestNewFrame(t *testing.T) {
	data := []byte{0x01}
	f, err := NewFrame(0x10, data, V1)
	require.NoError(t, err)
	assert.Equal(t, []byte{SyncByte, 0x50, 0x01, 0xFE}, f.Bytes())

	data[0] = 0x02
	assert.Equal(t, []byte{0x01}, f.Data, "NewFrame must copy data")

	_, err = NewFrame(0x10, nil, V1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewFrame(0x10, make([]byte, 9), V1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewFrame(0x40, data, V1)
	assert.ErrorIs(t, err, ErrInvalidID)
}
