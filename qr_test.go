package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWifiQRPayload(t *testing.T) {
	tests := []struct {
		name     string
		ssid     string
		password string
		want     string
	}{
		{"plain", "LEDClock", "clockconfig", "WIFI:T:WPA;S:LEDClock;P:clockconfig;;"},
		{"semicolon escaped", "a;b", "p;w", `WIFI:T:WPA;S:a\;b;P:p\;w;;`},
		{"special characters escaped", `x:y,"z"`, `\pw`, `WIFI:T:WPA;S:x\:y\,\"z\";P:\\pw;;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wifiQRPayload(tt.ssid, tt.password))
		})
	}
}
