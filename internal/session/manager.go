package session

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Manager runs several Controllers concurrently — one per configured band —
// adapted from coordinator_manager.go's map-of-coordinators pattern. Unlike
// the teacher's manager, sessions never share a queue or worker; only the
// process-global callsign hash tables are shared state across bands
// (spec.md section 4.9).
type Manager struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{controllers: make(map[string]*Controller)}
}

// Start registers and starts a Controller under name. Returns an error if a
// controller is already running under that name.
func (m *Manager) Start(ctx context.Context, c *Controller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.controllers[c.Name]; exists {
		return fmt.Errorf("session.Manager: %q is already running", c.Name)
	}
	c.Start(ctx)
	m.controllers[c.Name] = c
	log.Printf("session.Manager: started %q", c.Name)
	return nil
}

// StopAll stops every running controller.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, c := range m.controllers {
		c.Stop()
		log.Printf("session.Manager: stopped %q", name)
	}
	m.controllers = make(map[string]*Controller)
}

// Names returns the names of currently running controllers.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.controllers))
	for name := range m.controllers {
		out = append(out, name)
	}
	return out
}
