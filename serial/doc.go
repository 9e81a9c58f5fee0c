// Package serial provides the Linux UART layer used by the LIN master: raw
// termios configuration, non-blocking byte polling, break generation and
// modem line control.
//
// A LIN bus is a single wire, so every byte the master writes comes back on
// its own receiver. The port is therefore opened with VMIN=0/VTIME=0 by
// default: Read never blocks and returns 0 when nothing has arrived, which
// is what a polled protocol state machine needs.
//
// # Basic Usage
//
//	port, err := serial.Open("/dev/ttyUSB0", serial.WithBaudRate(19200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	n, err := port.Write([]byte{0x55})
//	buf := make([]byte, 16)
//	n, err = port.Read(buf) // 0, nil when the receive buffer is empty
//
// # Break Generation
//
// Two ways to put a break on the line are exposed:
//
//	// hold TX low with TIOCSBRK / TIOCCBRK
//	err = port.SetBreak(true)
//	err = port.SetBreak(false)
//
//	// or send 0x00 at half speed: 9 low bits become 18 bit times
//	err = port.SetBaudRate(9600)
//	_, err = port.Write([]byte{0x00})
//
// # Transceiver Direction
//
// RS485-style LIN transceivers take a driver-enable input, usually wired to
// RTS:
//
//	err = port.SetRTS(true)  // driver on
//	err = port.SetRTS(false) // listen only
//
// # Port Discovery
//
//	ports, err := serial.ListPorts()
//	for _, portPath := range ports {
//	    info, _ := serial.GetPortInfo(portPath)
//	    fmt.Printf("%s: %s (VID=%s PID=%s Serial=%s)\n",
//	        info.Path, info.Description, info.VendorID, info.ProductID, info.SerialNumber)
//	}
//
// # Error Handling
//
// Use errors.Is() for error type checking:
//
//	if errors.Is(err, serial.ErrDeviceNotFound) {
//	    // no such tty
//	}
//
// # Default Configuration
//
//   - BaudRate: 19200
//   - DataBits: 8
//   - StopBits: 1
//   - Parity: None
//   - ReadTimeout: 0 (non-blocking)
//   - WriteMode: Buffered
package serial
