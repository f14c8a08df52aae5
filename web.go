package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ==========================================
// WEB SERVER
// ==========================================
// The configuration surface: a JSON API plus embedded HTML pages. GET
// handlers return the current values; POST handlers accept partial
// updates (pointer fields, absent means unchanged), clamp them into
// range and persist the result before replying.

type webServer struct {
	state   *appState
	store   *Store
	mgr     *Manager
	hub     *previewHub
	log     zerolog.Logger
	restart func() // invoked after the /restart response is written
}

func newWebServer(state *appState, store *Store, mgr *Manager, hub *previewHub, log zerolog.Logger, restart func()) *webServer {
	return &webServer{
		state:   state,
		store:   store,
		mgr:     mgr,
		hub:     hub,
		log:     log.With().Str("component", "web").Logger(),
		restart: restart,
	}
}

func (ws *webServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return loggingMiddleware(ws.log, h)
	}
	mux.HandleFunc("/", wrap(ws.handleIndex))
	mux.HandleFunc("/wifi-setup", wrap(ws.handleWifiSetupPage))
	mux.HandleFunc("/api/config", wrap(ws.handleConfig))
	mux.HandleFunc("/api/wifi-config", wrap(ws.handleWifiConfig))
	mux.HandleFunc("/api/network-status", wrap(ws.handleNetworkStatus))
	mux.HandleFunc("/api/ap-qr.png", wrap(ws.handleAPQR))
	mux.HandleFunc("/restart", wrap(ws.handleRestart))
	mux.HandleFunc("/ws", ws.hub.handleWS)
	return mux
}

// handleIndex serves the WiFi setup page while in AP mode and the normal
// control panel otherwise, mirroring what a phone sees after joining the
// fallback access point.
func (ws *webServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if ws.mgr.APMode() {
		fmt.Fprint(w, wifiSetupPage)
		return
	}
	fmt.Fprint(w, controlPage)
}

func (ws *webServer) handleWifiSetupPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, wifiSetupPage)
}

// displayConfig is the wire form of the display settings; WiFi fields
// travel on their own endpoint.
type displayConfig struct {
	Mode            Mode    `json:"mode"`
	HourColor       RGB     `json:"hour_color"`
	MinuteColor     RGB     `json:"minute_color"`
	SecondColor     RGB     `json:"second_color"`
	MarkerColor     RGB     `json:"marker_color"`
	BackgroundColor RGB     `json:"background_color"`
	Brightness      float64 `json:"brightness"`
	TrailLength     int     `json:"trail_length"`
	PulseSpeed      int     `json:"pulse_speed"`
	RainbowSpeed    int     `json:"rainbow_speed"`
}

func (ws *webServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c := ws.state.Snapshot()
		jsonOK(w, displayConfig{
			Mode:            c.Mode,
			HourColor:       c.HourColor,
			MinuteColor:     c.MinuteColor,
			SecondColor:     c.SecondColor,
			MarkerColor:     c.MarkerColor,
			BackgroundColor: c.BackgroundColor,
			Brightness:      c.Brightness,
			TrailLength:     c.TrailLength,
			PulseSpeed:      c.PulseSpeed,
			RainbowSpeed:    c.RainbowSpeed,
		})

	case http.MethodPost:
		var req struct {
			Mode            *Mode    `json:"mode,omitempty"`
			HourColor       *RGB     `json:"hour_color,omitempty"`
			MinuteColor     *RGB     `json:"minute_color,omitempty"`
			SecondColor     *RGB     `json:"second_color,omitempty"`
			MarkerColor     *RGB     `json:"marker_color,omitempty"`
			BackgroundColor *RGB     `json:"background_color,omitempty"`
			Brightness      *float64 `json:"brightness,omitempty"`
			TrailLength     *int     `json:"trail_length,omitempty"`
			PulseSpeed      *int     `json:"pulse_speed,omitempty"`
			RainbowSpeed    *int     `json:"rainbow_speed,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		updated := ws.state.Update(func(c *Config) {
			if req.Mode != nil {
				c.Mode = *req.Mode
			}
			if req.HourColor != nil {
				c.HourColor = *req.HourColor
			}
			if req.MinuteColor != nil {
				c.MinuteColor = *req.MinuteColor
			}
			if req.SecondColor != nil {
				c.SecondColor = *req.SecondColor
			}
			if req.MarkerColor != nil {
				c.MarkerColor = *req.MarkerColor
			}
			if req.BackgroundColor != nil {
				c.BackgroundColor = *req.BackgroundColor
			}
			if req.Brightness != nil {
				c.Brightness = *req.Brightness
			}
			if req.TrailLength != nil {
				c.TrailLength = *req.TrailLength
			}
			if req.PulseSpeed != nil {
				c.PulseSpeed = *req.PulseSpeed
			}
			if req.RainbowSpeed != nil {
				c.RainbowSpeed = *req.RainbowSpeed
			}
		})

		if err := ws.store.Save(updated); err != nil {
			ws.log.Error().Err(err).Msg("saving config failed")
			jsonError(w, "Failed to save config", http.StatusInternalServerError)
			return
		}
		jsonOK(w, map[string]string{"status": "ok"})

	default:
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleWifiConfig reads and updates the network credentials. The client
// network's password is never echoed back; the AP password is, so the
// setup page can render the join QR code.
func (ws *webServer) handleWifiConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c := ws.state.Snapshot()
		jsonOK(w, map[string]string{
			"wifi_ssid":   c.WifiSSID,
			"ap_ssid":     c.APSSID,
			"ap_password": c.APPassword,
		})

	case http.MethodPost:
		var req struct {
			WifiSSID     *string `json:"wifi_ssid,omitempty"`
			WifiPassword *string `json:"wifi_password,omitempty"`
			APSSID       *string `json:"ap_ssid,omitempty"`
			APPassword   *string `json:"ap_password,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.APPassword != nil && len(*req.APPassword) < minAPPasswordLen {
			jsonError(w, "AP password must be at least 8 characters", http.StatusBadRequest)
			return
		}

		updated := ws.state.Update(func(c *Config) {
			if req.WifiSSID != nil {
				c.WifiSSID = *req.WifiSSID
			}
			if req.WifiPassword != nil {
				c.WifiPassword = *req.WifiPassword
			}
			if req.APSSID != nil {
				c.APSSID = *req.APSSID
			}
			if req.APPassword != nil {
				c.APPassword = *req.APPassword
			}
		})

		if err := ws.store.Save(updated); err != nil {
			ws.log.Error().Err(err).Msg("saving wifi config failed")
			jsonError(w, "Failed to save config", http.StatusInternalServerError)
			return
		}
		// New credentials take effect on the next boot.
		jsonOK(w, map[string]string{"status": "ok", "note": "restart to apply"})

	default:
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (ws *webServer) handleNetworkStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, map[string]interface{}{
		"network_name": ws.mgr.NetworkName(),
		"ap_mode":      ws.mgr.APMode(),
		"state":        ws.mgr.State().String(),
	})
}

// handleRestart acknowledges, then exits shortly after so the response
// reaches the client. Restarting is the only way out of AP mode.
func (ws *webServer) handleRestart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ws.log.Info().Msg("restart requested")
	jsonOK(w, map[string]string{"status": "restarting"})
	if ws.restart != nil {
		go func() {
			time.Sleep(500 * time.Millisecond)
			ws.restart()
		}()
	}
}
