package models

import (
	"context"
	"sync"

	"github.com/allbin/go-lin/internal/tui/components"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

type ConnectionStatusMsg struct {
	Connected bool
	Error     error
}

// StatsMsg carries a Master.AllStats snapshot from the bus worker
type StatsMsg struct {
	Stats []uint64
}

// BusModel is the state shared by the bus console views. The master
// itself lives in the bus worker goroutine; the model only sees the
// frames and counters it reports.
type BusModel struct {
	portPath string

	// State
	connected bool
	rawData   []components.FrameLogMsg
	stats     []uint64
	err       error
	ready     bool

	// Input mode (vim-like)
	inputMode InputMode

	// Cancellation and synchronization
	cancel context.CancelFunc
	ctx    context.Context
	mu     sync.RWMutex
}

func NewBusModel(ctx context.Context, portPath string) *BusModel {
	ctx, cancel := context.WithCancel(ctx)

	return &BusModel{
		portPath:  portPath,
		rawData:   make([]components.FrameLogMsg, 0),
		inputMode: InputModeNormal,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *BusModel) GetPortPath() string {
	return m.portPath
}

func (m *BusModel) IsConnected() bool {
	return m.connected
}

func (m *BusModel) SetConnected(connected bool) {
	m.connected = connected
}

func (m *BusModel) GetError() error {
	return m.err
}

func (m *BusModel) SetError(err error) {
	m.err = err
}

func (m *BusModel) IsReady() bool {
	return m.ready
}

func (m *BusModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *BusModel) GetRawData() []components.FrameLogMsg {
	return m.rawData
}

// maxRawData bounds the frame history kept for redraws
const maxRawData = 5000

func (m *BusModel) AddRawData(msg components.FrameLogMsg) {
	m.rawData = append(m.rawData, msg)
	if len(m.rawData) > maxRawData {
		m.rawData = m.rawData[len(m.rawData)-maxRawData:]
	}
}

func (m *BusModel) ClearData() {
	m.rawData = make([]components.FrameLogMsg, 0)
}

func (m *BusModel) GetStats() []uint64 {
	return m.stats
}

func (m *BusModel) SetStats(stats []uint64) {
	m.stats = stats
}

func (m *BusModel) GetInputMode() InputMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode
}

func (m *BusModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *BusModel) IsInInsertMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode == InputModeInsert
}

func (m *BusModel) GetContext() context.Context {
	return m.ctx
}

// Cleanup cancels the context, stopping the bus worker
func (m *BusModel) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}
}
