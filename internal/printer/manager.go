package printer

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tillbridge/tillbridge/internal/escpos"
)

// ErrNotConnected is returned for any write attempted without an open
// printer connection
var ErrNotConnected = errors.New("printer not connected")

// State describes the connection lifecycle
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

// String returns the lowercase state name used in status reports
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Manager owns the single printer connection. At most one device is
// connected at a time; connecting to a new device tears down the old
// link first. All methods are safe for concurrent use.
type Manager struct {
	transport Transport

	mu      sync.Mutex
	channel io.ReadWriteCloser
	state   State
	address string
}

// NewManager creates a disconnected manager over the given transport
func NewManager(transport Transport) *Manager {
	return &Manager{
		transport: transport,
		state:     Disconnected,
	}
}

// PairedDevices lists the devices the transport can reach
func (m *Manager) PairedDevices() ([]Device, error) {
	return m.transport.Paired()
}

// Connect opens a connection to the device at the given address. Any
// existing connection is closed first, whatever its target. On success
// the printer is initialized and the manager reports Connected.
func (m *Manager) Connect(address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	m.state = Connecting
	m.address = address

	channel, err := m.transport.Dial(address)
	if err != nil {
		m.state = Disconnected
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	// Reset the printer to a known state before anything else prints
	if _, err := channel.Write(escpos.Init); err != nil {
		channel.Close()
		m.state = Disconnected
		return fmt.Errorf("failed to initialize printer: %w", err)
	}

	m.channel = channel
	m.state = Connected
	return nil
}

// Disconnect closes the connection if one exists. Calling it while
// already disconnected is a no-op.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
}

// Write sends raw bytes to the printer. A failed write drops the
// connection so the next status check reflects reality.
func (m *Manager) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.channel == nil {
		return ErrNotConnected
	}

	if _, err := m.channel.Write(data); err != nil {
		m.closeLocked()
		return fmt.Errorf("printer write failed: %w", err)
	}
	return nil
}

// IsConnected reports whether a printer link is open
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state == Connected
}

// State returns the current connection state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Address returns the address of the current or last attempted device
func (m *Manager) Address() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.address
}

// closeLocked tears down the channel. Close errors are swallowed: the
// caller is abandoning the link either way. Must hold m.mu.
func (m *Manager) closeLocked() {
	if m.channel != nil {
		m.channel.Close()
		m.channel = nil
	}
	m.state = Disconnected
}
