package testutil

import (
	"sync"
	"time"
)

// MockRCONConn records RCON commands with the time they were sent.
type MockRCONConn struct {
	mu sync.Mutex

	// Fail maps a command to the error Execute returns for it.
	Fail map[string]error

	commands []string
	sentAt   []time.Time
	closed   bool
}

// Execute records command.
func (m *MockRCONConn) Execute(command string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commands = append(m.commands, command)
	m.sentAt = append(m.sentAt, time.Now())

	if err, ok := m.Fail[command]; ok {
		return "", err
	}

	return "", nil
}

// Close marks the connection closed.
func (m *MockRCONConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

// Commands returns the commands sent so far.
func (m *MockRCONConn) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.commands...)
}

// SentAt returns when each command was sent.
func (m *MockRCONConn) SentAt() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]time.Time(nil), m.sentAt...)
}

// Closed reports whether Close was called.
func (m *MockRCONConn) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}
