package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ==========================================
// CONNECTIVITY MANAGER
// ==========================================
// State machine over the WiFi radio. The device starts as a client of the
// configured network; if that first attempt fails (or no SSID is set) it
// falls back to hosting its own access point for configuration and stays
// there until an explicit restart. A link drop after a successful
// connection is different: the manager keeps retrying the client network
// with backoff instead of giving up and becoming an access point
// mid-session. While connected it also schedules the hourly time sync.
//
// Nothing here is fatal: radio errors, AP creation errors and sync errors
// are all logged and leave the state machine consistent, so the render
// tick keeps running regardless of connectivity.

// ConnState is the connectivity status, owned exclusively by the Manager.
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnectingClient
	StateClientConnected
	StateAPMode
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnectingClient:
		return "connecting"
	case StateClientConnected:
		return "connected"
	case StateAPMode:
		return "ap"
	default:
		return "unknown"
	}
}

// minAPPasswordLen is a hard precondition for AP creation; shorter
// passwords are rejected outright rather than padded or truncated.
const minAPPasswordLen = 8

var errAPPasswordTooShort = errors.New("access point password must be at least 8 characters")

// Radio is the set of low-level wireless primitives. Implementations hold
// no retry logic; all retry and backoff policy lives in the Manager.
type Radio interface {
	// Connect joins the given network as a client.
	Connect(ctx context.Context, ssid, password string) error
	// StartAccessPoint creates a hotspot and returns its IPv4 address.
	StartAccessPoint(ctx context.Context, ssid, password string) (string, error)
	// LinkUp reports whether the client link is still established.
	LinkUp(ctx context.Context) (bool, error)
}

// SyncFunc performs one bounded time-sync attempt.
type SyncFunc func(ctx context.Context) error

const (
	connectTimeout = 30 * time.Second
	apStartTimeout = 15 * time.Second
	retryInitial   = 5 * time.Second
	retryMax       = 60 * time.Second
	linkCheckEvery = 10 * time.Second
	// After a failed sync the next attempt comes sooner than the full
	// hourly interval; the stale reference keeps being used meanwhile.
	syncRetryAfter = 5 * time.Minute
)

type Manager struct {
	radio  Radio
	syncFn SyncFunc
	log    zerolog.Logger

	wifiSSID     string
	wifiPassword string
	apSSID       string
	apPassword   string

	// mu guards the fields read by the web surface. Everything else is
	// touched only from the control loop's tick.
	mu          sync.Mutex
	state       ConnState
	networkName string
	apAddr      string

	started       bool
	everConnected bool
	apTried       bool
	retryDelay    time.Duration
	nextAttempt   time.Time
	nextLinkCheck time.Time
	nextSync      time.Time
}

func NewManager(radio Radio, cfg Config, syncFn SyncFunc, log zerolog.Logger) *Manager {
	return &Manager{
		radio:        radio,
		syncFn:       syncFn,
		log:          log.With().Str("component", "connectivity").Logger(),
		wifiSSID:     cfg.WifiSSID,
		wifiPassword: cfg.WifiPassword,
		apSSID:       cfg.APSSID,
		apPassword:   cfg.APPassword,
		state:        StateDisconnected,
		retryDelay:   retryInitial,
	}
}

// State returns the current connectivity state.
func (m *Manager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// NetworkName returns the name of the network the device is on: the
// client SSID when connected, the AP SSID in AP mode, empty otherwise.
func (m *Manager) NetworkName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.networkName
}

// APMode reports whether the device is hosting its fallback access point.
func (m *Manager) APMode() bool {
	return m.State() == StateAPMode
}

// APAddr returns the access point's IPv4 address, empty outside AP mode.
func (m *Manager) APAddr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apAddr
}

func (m *Manager) setState(s ConnState, networkName string) {
	m.mu.Lock()
	m.state = s
	m.networkName = networkName
	m.mu.Unlock()
}

// Tick runs one state check. Called once per control-loop iteration; any
// network operation it performs is bounded by its own timeout.
func (m *Manager) Tick(ctx context.Context, now time.Time) {
	switch m.State() {
	case StateDisconnected:
		m.tickDisconnected(ctx, now)
	case StateClientConnected:
		m.tickConnected(ctx, now)
	case StateAPMode, StateConnectingClient:
		// APMode persists until a restart; ConnectingClient only exists
		// within a tick.
	}
}

func (m *Manager) tickDisconnected(ctx context.Context, now time.Time) {
	if !m.started {
		m.started = true
		if m.wifiSSID == "" {
			m.log.Info().Msg("no wifi ssid configured, starting access point")
			m.apTried = true
			if err := m.enterAPMode(ctx); err != nil {
				m.log.Error().Err(err).Msg("access point start failed")
			}
			return
		}
		m.nextAttempt = now
	}

	if m.wifiSSID == "" || now.Before(m.nextAttempt) {
		return
	}
	m.attemptClient(ctx, now)
}

func (m *Manager) attemptClient(ctx context.Context, now time.Time) {
	m.setState(StateConnectingClient, "")
	m.log.Info().Str("ssid", m.wifiSSID).Msg("connecting to wifi")

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	err := m.radio.Connect(cctx, m.wifiSSID, m.wifiPassword)
	cancel()

	if err != nil {
		m.setState(StateDisconnected, "")
		m.log.Error().Err(err).Str("ssid", m.wifiSSID).Msg("wifi connection failed")

		// Further attempts back off regardless of how we got here, so a
		// failed Connect never re-runs on the very next tick.
		m.nextAttempt = now.Add(m.retryDelay)
		m.retryDelay *= 2
		if m.retryDelay > retryMax {
			m.retryDelay = retryMax
		}

		if !m.everConnected && !m.apTried {
			// The initial attempt failed: host the configuration access
			// point instead. One shot only; a failed AP start is
			// reported, not retried.
			m.apTried = true
			if apErr := m.enterAPMode(ctx); apErr != nil {
				m.log.Error().Err(apErr).Msg("access point start failed")
			}
		}
		return
	}

	m.setState(StateClientConnected, m.wifiSSID)
	m.everConnected = true
	m.retryDelay = retryInitial
	m.nextLinkCheck = now.Add(linkCheckEvery)
	m.nextSync = now // sync immediately after connecting
	m.log.Info().Str("ssid", m.wifiSSID).Msg("wifi connected")
}

func (m *Manager) tickConnected(ctx context.Context, now time.Time) {
	if !now.Before(m.nextLinkCheck) {
		m.nextLinkCheck = now.Add(linkCheckEvery)
		up, err := m.radio.LinkUp(ctx)
		if err != nil || !up {
			m.setState(StateDisconnected, "")
			m.retryDelay = retryInitial
			m.nextAttempt = now.Add(m.retryDelay)
			m.log.Warn().Err(err).Msg("wifi link lost, scheduling reconnect")
			return
		}
	}

	if m.syncFn == nil || now.Before(m.nextSync) {
		return
	}

	sctx, cancel := context.WithTimeout(ctx, timeSyncTimeout)
	err := m.syncFn(sctx)
	cancel()
	if err != nil {
		// The cached time reference stays in use until a sync succeeds.
		m.nextSync = now.Add(syncRetryAfter)
		m.log.Error().Err(err).Msg("time sync failed")
		return
	}
	m.nextSync = now.Add(timeSyncInterval)
	m.log.Info().Msg("time synchronized")
}

// enterAPMode creates the fallback access point. A password shorter than
// eight characters fails the precondition before the radio is touched.
func (m *Manager) enterAPMode(ctx context.Context) error {
	if len(m.apPassword) < minAPPasswordLen {
		return errAPPasswordTooShort
	}

	actx, cancel := context.WithTimeout(ctx, apStartTimeout)
	defer cancel()
	addr, err := m.radio.StartAccessPoint(actx, m.apSSID, m.apPassword)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.state = StateAPMode
	m.networkName = m.apSSID
	m.apAddr = addr
	m.mu.Unlock()
	m.log.Info().Str("ssid", m.apSSID).Str("addr", addr).Msg("access point started")
	return nil
}
