package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ==========================================
// NETWORK TIME CLIENT
// ==========================================

const (
	timeAPIURL       = "http://worldtimeapi.org/api/ip"
	timeSyncInterval = 3600 * time.Second
	timeSyncTimeout  = 10 * time.Second
)

type timeAPIResponse struct {
	Unixtime  int64  `json:"unixtime"`
	UTCOffset string `json:"utc_offset"` // "+05:30"
	Timezone  string `json:"timezone"`
}

// timeAPIClient fetches the current time from the worldtime HTTP API. It
// performs a single bounded-timeout attempt per call; all retry policy
// lives in the connectivity manager.
type timeAPIClient struct {
	url    string
	client *http.Client
}

func newTimeAPIClient(url string) *timeAPIClient {
	return &timeAPIClient{
		url:    url,
		client: &http.Client{Timeout: timeSyncTimeout},
	}
}

// FetchTime requests the current time, returning it in the zone the API
// reports.
func (c *timeAPIClient) FetchTime(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("time sync request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("time sync fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("time sync fetch: unexpected status %s", resp.Status)
	}

	var payload timeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return time.Time{}, fmt.Errorf("time sync decode: %w", err)
	}
	if payload.Unixtime == 0 {
		return time.Time{}, fmt.Errorf("time sync decode: missing unixtime")
	}

	loc := parseUTCOffset(payload.UTCOffset, payload.Timezone)
	return time.Unix(payload.Unixtime, 0).In(loc), nil
}

// parseUTCOffset turns an offset like "+05:30" into a fixed zone. An
// unparseable offset falls back to UTC.
func parseUTCOffset(offset, name string) *time.Location {
	s := strings.TrimSpace(offset)
	if len(s) < 6 || (s[0] != '+' && s[0] != '-') {
		return time.UTC
	}
	hours, err1 := strconv.Atoi(s[1:3])
	mins, err2 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil {
		return time.UTC
	}
	secs := hours*3600 + mins*60
	if s[0] == '-' {
		secs = -secs
	}
	if name == "" {
		name = s
	}
	return time.FixedZone(name, secs)
}
