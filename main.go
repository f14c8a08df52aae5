package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// ==========================================
// MAIN
// ==========================================

const tickInterval = 50 * time.Millisecond

// requestRestart signals the control loop without ever blocking the
// caller; repeated requests collapse into the one already pending.
func requestRestart(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func main() {
	configPath := flag.String("config", defaultConfigFile, "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	store := NewStore(*configPath, log)
	cfg := store.Load()
	state := newAppState(cfg)

	strip, err := openStrip(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("led strip init failed")
	}
	defer strip.Close()

	var loc *time.Location // nil keeps the zone reported by the time API
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		} else {
			log.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone, ignoring")
		}
	}
	clock := NewTimeSource(loc)
	timeAPI := newTimeAPIClient(timeAPIURL)

	radio := newNmcliRadio(cfg.WifiInterface, log)
	mgr := NewManager(radio, cfg, func(ctx context.Context) error {
		t, err := timeAPI.FetchTime(ctx)
		if err != nil {
			return err
		}
		clock.SetReference(t)
		return nil
	}, log)

	hub := newPreviewHub(log)
	// The restart request is only signalled here; the control loop acts
	// on it between frames, so the strip is never closed mid-render.
	restartCh := make(chan struct{}, 1)
	web := newWebServer(state, store, mgr, hub, log, func() {
		requestRestart(restartCh)
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: web.routes()}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("web server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("web server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := newRenderer()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	log.Info().Int("pixels", NumPixels).Msg("clock running")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			srv.Shutdown(sctx)
			cancel()
			return
		case <-restartCh:
			log.Info().Msg("restarting")
			sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			srv.Shutdown(sctx)
			cancel()
			strip.Close()
			os.Exit(0)
		case <-ticker.C:
			snap := state.Snapshot()
			mgr.Tick(ctx, time.Now())
			frame := renderer.Frame(snap, clock.Now())
			if err := strip.Render(frame); err != nil {
				log.Error().Err(err).Msg("strip render failed")
			}
			hub.Broadcast(frame)
		}
	}
}
