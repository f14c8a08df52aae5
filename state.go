package main

import "sync"

// ==========================================
// SHARED STATE
// ==========================================

const defaultConfigFile = "config.json"

// appState holds the live configuration shared between the HTTP handlers
// and the control loop. The loop takes one snapshot per tick so a frame
// is always rendered from a single consistent config.
type appState struct {
	mu  sync.Mutex
	cfg Config
}

func newAppState(cfg Config) *appState {
	return &appState{cfg: cfg}
}

func (s *appState) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Update applies fn to the config under the lock and returns the result.
func (s *appState) Update(fn func(*Config)) Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cfg)
	clampConfig(&s.cfg)
	return s.cfg
}
