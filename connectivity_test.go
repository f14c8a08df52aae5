package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRadio scripts the radio primitives and records every call.
type fakeRadio struct {
	connectErrs []error // consumed one per Connect call, nil past the end
	apErr       error
	linkUp      bool
	linkErr     error

	connectCalls int
	apCalls      int
}

func (f *fakeRadio) Connect(ctx context.Context, ssid, password string) error {
	f.connectCalls++
	if len(f.connectErrs) > 0 {
		err := f.connectErrs[0]
		f.connectErrs = f.connectErrs[1:]
		return err
	}
	return nil
}

func (f *fakeRadio) StartAccessPoint(ctx context.Context, ssid, password string) (string, error) {
	f.apCalls++
	if f.apErr != nil {
		return "", f.apErr
	}
	return "10.42.0.1", nil
}

func (f *fakeRadio) LinkUp(ctx context.Context) (bool, error) {
	return f.linkUp, f.linkErr
}

func connTestConfig() Config {
	c := defaultConfig()
	c.WifiSSID = "home-net"
	c.WifiPassword = "secret99"
	return c
}

func newTestManager(radio Radio, cfg Config, syncFn SyncFunc) *Manager {
	return NewManager(radio, cfg, syncFn, zerolog.Nop())
}

func TestConnectsAsClient(t *testing.T) {
	radio := &fakeRadio{linkUp: true}
	m := newTestManager(radio, connTestConfig(), nil)

	m.Tick(context.Background(), time.Now())

	assert.Equal(t, StateClientConnected, m.State())
	assert.Equal(t, "home-net", m.NetworkName())
	assert.False(t, m.APMode())
	assert.Equal(t, 1, radio.connectCalls)
	assert.Equal(t, 0, radio.apCalls)
}

func TestEmptySSIDGoesStraightToAP(t *testing.T) {
	radio := &fakeRadio{}
	cfg := connTestConfig()
	cfg.WifiSSID = ""
	m := newTestManager(radio, cfg, nil)

	m.Tick(context.Background(), time.Now())

	assert.Equal(t, StateAPMode, m.State())
	assert.Equal(t, cfg.APSSID, m.NetworkName())
	assert.Equal(t, "10.42.0.1", m.APAddr())
	assert.Equal(t, 0, radio.connectCalls, "no client attempt without an ssid")
}

func TestInitialFailureFallsBackToAP(t *testing.T) {
	radio := &fakeRadio{connectErrs: []error{errors.New("auth failed")}}
	m := newTestManager(radio, connTestConfig(), nil)

	m.Tick(context.Background(), time.Now())

	assert.Equal(t, StateAPMode, m.State())
	assert.Equal(t, 1, radio.connectCalls)
	assert.Equal(t, 1, radio.apCalls)
}

func TestMidSessionDropRetriesClientNotAP(t *testing.T) {
	radio := &fakeRadio{linkUp: true}
	m := newTestManager(radio, connTestConfig(), nil)

	now := time.Now()
	m.Tick(context.Background(), now)
	require.Equal(t, StateClientConnected, m.State())

	// Link drops; next check notices.
	radio.linkUp = false
	radio.connectErrs = []error{errors.New("no carrier"), errors.New("no carrier")}
	now = now.Add(linkCheckEvery + time.Second)
	m.Tick(context.Background(), now)
	assert.Equal(t, StateDisconnected, m.State())
	radio.linkUp = true

	// Failed reconnects back off but never fall to AP mode.
	for i := 0; i < 10; i++ {
		now = now.Add(retryMax + time.Second)
		m.Tick(context.Background(), now)
		assert.NotEqual(t, StateAPMode, m.State(), "tick %d", i)
	}
	assert.Equal(t, 0, radio.apCalls)
	assert.Equal(t, StateClientConnected, m.State(), "reconnects once the network returns")
}

func TestReconnectBackoffDoubles(t *testing.T) {
	radio := &fakeRadio{linkUp: true}
	m := newTestManager(radio, connTestConfig(), nil)

	now := time.Now()
	m.Tick(context.Background(), now)
	require.Equal(t, StateClientConnected, m.State())

	radio.linkUp = false
	radio.connectErrs = []error{
		errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down"),
	}
	now = now.Add(linkCheckEvery + time.Second)
	m.Tick(context.Background(), now)
	require.Equal(t, StateDisconnected, m.State())
	require.Equal(t, 1, radio.connectCalls)

	// Too early: first retry waits out the initial delay.
	m.Tick(context.Background(), now.Add(retryInitial/2))
	assert.Equal(t, 1, radio.connectCalls)

	// First retry after the initial delay.
	now = now.Add(retryInitial + time.Second)
	m.Tick(context.Background(), now)
	assert.Equal(t, 2, radio.connectCalls)

	// Second retry still uses the initial delay, then the wait doubles.
	now = now.Add(retryInitial + time.Second)
	m.Tick(context.Background(), now)
	assert.Equal(t, 3, radio.connectCalls)

	m.Tick(context.Background(), now.Add(retryInitial+time.Second))
	assert.Equal(t, 3, radio.connectCalls, "doubled delay not yet elapsed")

	now = now.Add(2*retryInitial + time.Second)
	m.Tick(context.Background(), now)
	assert.Equal(t, 4, radio.connectCalls)
}

func TestShortAPPasswordNeverTouchesRadio(t *testing.T) {
	radio := &fakeRadio{connectErrs: []error{errors.New("auth failed")}}
	cfg := connTestConfig()
	cfg.APPassword = "short7!"
	m := newTestManager(radio, cfg, nil)

	m.Tick(context.Background(), time.Now())

	assert.Equal(t, StateDisconnected, m.State())
	assert.Equal(t, 0, radio.apCalls, "precondition fails before the radio is called")

	err := m.enterAPMode(context.Background())
	assert.ErrorIs(t, err, errAPPasswordTooShort)
}

func TestEightCharAPPasswordAccepted(t *testing.T) {
	radio := &fakeRadio{}
	cfg := connTestConfig()
	cfg.WifiSSID = ""
	cfg.APPassword = "12345678"
	m := newTestManager(radio, cfg, nil)

	m.Tick(context.Background(), time.Now())

	assert.Equal(t, StateAPMode, m.State())
	assert.Equal(t, 1, radio.apCalls)
}

func TestInitialAndAPFailureDoesNotSpinRetries(t *testing.T) {
	// Both the client network and the AP fall over. The AP gets exactly
	// one attempt, and the client reconnects wait out the backoff
	// instead of re-running a blocking Connect on every tick.
	radio := &fakeRadio{
		connectErrs: []error{
			errors.New("no ap found"), errors.New("no ap found"),
			errors.New("no ap found"), errors.New("no ap found"),
		},
		apErr: errors.New("hostapd unavailable"),
	}
	m := newTestManager(radio, connTestConfig(), nil)

	now := time.Now()
	for i := 0; i < 10; i++ {
		m.Tick(context.Background(), now)
		now = now.Add(50 * time.Millisecond)
	}

	assert.Equal(t, 1, radio.apCalls, "access point start reported once, never retried")
	assert.LessOrEqual(t, radio.connectCalls, 2, "client retries respect the backoff")
	assert.Equal(t, StateDisconnected, m.State())
}

func TestAPStartFailureStaysDisconnected(t *testing.T) {
	radio := &fakeRadio{apErr: errors.New("hostapd unavailable")}
	cfg := connTestConfig()
	cfg.WifiSSID = ""
	m := newTestManager(radio, cfg, nil)

	m.Tick(context.Background(), time.Now())

	assert.Equal(t, StateDisconnected, m.State())
	// No silent retry on later ticks.
	m.Tick(context.Background(), time.Now().Add(time.Minute))
	assert.Equal(t, 1, radio.apCalls)
}

func TestSyncImmediatelyAfterConnect(t *testing.T) {
	radio := &fakeRadio{linkUp: true}
	syncs := 0
	m := newTestManager(radio, connTestConfig(), func(ctx context.Context) error {
		syncs++
		return nil
	})

	now := time.Now()
	m.Tick(context.Background(), now)
	require.Equal(t, StateClientConnected, m.State())
	m.Tick(context.Background(), now.Add(time.Second))
	assert.Equal(t, 1, syncs, "first sync right after connecting")

	// Next sync waits out the full interval.
	m.Tick(context.Background(), now.Add(timeSyncInterval/2))
	assert.Equal(t, 1, syncs)
	m.Tick(context.Background(), now.Add(timeSyncInterval+2*time.Second))
	assert.Equal(t, 2, syncs)
}

func TestSyncFailureKeepsStateAndRetriesSooner(t *testing.T) {
	radio := &fakeRadio{linkUp: true}
	var syncErr error = errors.New("api down")
	syncs := 0
	m := newTestManager(radio, connTestConfig(), func(ctx context.Context) error {
		syncs++
		return syncErr
	})

	now := time.Now()
	m.Tick(context.Background(), now)
	m.Tick(context.Background(), now.Add(time.Second))
	require.Equal(t, 1, syncs)
	assert.Equal(t, StateClientConnected, m.State(), "sync failure does not change connectivity")

	// Retry after the short backoff, well before the hourly interval.
	syncErr = nil
	m.Tick(context.Background(), now.Add(syncRetryAfter+2*time.Second))
	assert.Equal(t, 2, syncs)
}
