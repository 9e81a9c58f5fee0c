package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUSBChip(t *testing.T) {
	tests := []struct {
		vid  string
		want string
	}{
		{"0403", "FTDI"},
		{"1A86", "WCH CH34x"},
		{"10c4", "Silicon Labs CP210x"},
		{"dead", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, usbChip(tt.vid), tt.vid)
	}
}

func TestFilterPorts(t *testing.T) {
	rows := []portRow{
		{path: "/dev/ttyUSB0", name: "ttyUSB0", kind: portUSB},
		{path: "/dev/ttyS0", name: "ttyS0", kind: portOnboard},
		{path: "/dev/ttyLP1", name: "ttyLP1", kind: portOnboard},
		{path: "/dev/ttyACM0", name: "ttyACM0", err: errors.New("gone")},
	}

	assert.Len(t, filterPorts(rows, ""), 4)
	assert.Len(t, filterPorts(rows, "all"), 4)

	usb := filterPorts(rows, "USB")
	if assert.Len(t, usb, 1) {
		assert.Equal(t, "/dev/ttyUSB0", usb[0].path)
	}
	assert.Len(t, filterPorts(rows, "onboard"), 2)
	assert.Empty(t, filterPorts(rows, "bluetooth"))
}

func TestRenderPortTable(t *testing.T) {
	out := renderPortTable([]portRow{
		{name: "ttyUSB0", kind: portUSB, usb: "0403:6001", chip: "FTDI", serial: "A10K", desc: "USB Serial Port"},
		{name: "/dev/ttyX", usb: "-", chip: "-", serial: "-", err: errors.New("device not found")},
	})

	assert.Contains(t, out, "Found 2 serial port(s)")
	assert.Contains(t, out, "0403:6001")
	assert.Contains(t, out, "FTDI")
	assert.Contains(t, out, "device not found")
}
