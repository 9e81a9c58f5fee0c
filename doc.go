// Package lin implements the master side of a LIN (Local Interconnect
// Network) bus on top of a byte-oriented, single-wire transport.
//
// A Master runs one frame exchange at a time through a small state machine
// that is advanced by Handler. Every byte the master transmits is read back
// from the bus and compared, so wiring faults and collisions show up as
// echo errors rather than silently corrupted frames.
//
// # Non-blocking Usage
//
//	var m lin.Master
//	err := m.Begin("body", transport, 19200, lin.V2)
//
//	m.SendMasterRequest(0x10, []byte{0x01, 0x02})
//	for m.Handler() != lin.StateDone {
//	    // other work
//	}
//	if m.Error() != lin.NoError {
//	    m.ResetError()
//	}
//	m.ResetStateMachine()
//
// # Blocking Usage
//
//	if e := m.ReceiveSlaveResponseBlocking(0x20); e == lin.NoError {
//	    fmt.Println(m.Frame().Data)
//	}
//	m.ResetStateMachine()
//
// The blocking calls loop over Handler and always return, at the latest a
// byte time after the frame timeout. The context variants return a Go
// error for the exchange and abort it when the context is done.
//
// # Errors
//
// Protocol faults are collected in a sticky Error bit set that is only
// cleared by ResetError. Error.Err converts it for use with errors.Is:
//
//	if errors.Is(m.Error().Err(), lin.ErrTimeout) {
//	    // no slave answered
//	}
//
// # Serial Ports
//
// OpenSerial returns a Transport for a Linux tty. The transceiver enable
// line can be driven through RTS:
//
//	t, err := lin.OpenSerial("/dev/ttyUSB0", 19200, lin.BreakHalfBaud)
//	err = m.Begin("lin0", t, 19200, lin.V2, lin.WithTxEnable(lin.RTSLine{Port: t.Port()}))
package lin
