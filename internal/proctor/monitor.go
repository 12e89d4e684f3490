package proctor

import "sync"

// EnvironmentMonitor is the proctoring capability: an exclusive focus mode
// that must be engaged before a session starts. Losing it mid-session is a
// UX nudge, never an enforcement mechanism, since it cannot block input.
type EnvironmentMonitor interface {
	// Engage establishes focus mode. An error here means the session
	// precondition cannot be satisfied and the start must be aborted.
	Engage() error
	// Release leaves focus mode. Safe to call more than once.
	Release()
	// IsActive reports whether focus mode currently holds.
	IsActive() bool
	// OnLost registers a callback fired whenever focus is lost while engaged.
	OnLost(fn func())
}

// ManualMonitor is an EnvironmentMonitor driven by explicit signals from the
// embedding frontend (focus/blur events forwarded over whatever transport the
// host UI uses). It is also the scriptable implementation used in tests.
type ManualMonitor struct {
	mu      sync.Mutex
	engaged bool
	active  bool
	onLost  func()
}

func NewManualMonitor() *ManualMonitor {
	return &ManualMonitor{}
}

func (m *ManualMonitor) Engage() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engaged = true
	m.active = true
	return nil
}

func (m *ManualMonitor) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engaged = false
	m.active = false
}

func (m *ManualMonitor) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engaged && m.active
}

func (m *ManualMonitor) OnLost(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLost = fn
}

// SignalFocus feeds a platform focus change into the monitor.
func (m *ManualMonitor) SignalFocus(active bool) {
	m.mu.Lock()
	wasActive := m.active
	m.active = active
	fn := m.onLost
	engaged := m.engaged
	m.mu.Unlock()

	if engaged && wasActive && !active && fn != nil {
		fn()
	}
}
