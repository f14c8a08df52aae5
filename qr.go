package main

import (
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ==========================================
// QR CODE GENERATION
// ==========================================

// wifiQRPayload builds the standard WIFI: join string that phone cameras
// understand. Backslash, semicolon, comma, quote and colon must be
// escaped inside field values.
func wifiQRPayload(ssid, password string) string {
	esc := strings.NewReplacer(
		`\`, `\\`,
		`;`, `\;`,
		`,`, `\,`,
		`"`, `\"`,
		`:`, `\:`,
	)
	return "WIFI:T:WPA;S:" + esc.Replace(ssid) + ";P:" + esc.Replace(password) + ";;"
}

// handleAPQR serves a scannable PNG encoding the access point's
// credentials, shown on the setup page so a phone can join in one scan.
func (ws *webServer) handleAPQR(w http.ResponseWriter, r *http.Request) {
	c := ws.state.Snapshot()
	png, err := qrcode.Encode(wifiQRPayload(c.APSSID, c.APPassword), qrcode.Medium, 256)
	if err != nil {
		jsonError(w, "Failed to generate QR code: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
