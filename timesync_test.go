package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unixtime": 1750000000, "utc_offset": "+05:30", "timezone": "Asia/Kolkata"}`))
	}))
	defer srv.Close()

	got, err := newTimeAPIClient(srv.URL).FetchTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1750000000), got.Unix())

	_, offset := got.Zone()
	assert.Equal(t, 5*3600+1800, offset, "reported offset carried into the result")
}

func TestFetchTimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			"invalid json",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			"missing unixtime",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"timezone": "Etc/UTC"}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			_, err := newTimeAPIClient(srv.URL).FetchTime(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFetchTimeHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTimeAPIClient(srv.URL).FetchTime(ctx)
	assert.Error(t, err)
}

func TestParseUTCOffset(t *testing.T) {
	tests := []struct {
		offset string
		secs   int
	}{
		{"+05:30", 5*3600 + 1800},
		{"-04:00", -4 * 3600},
		{"+00:00", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.offset, func(t *testing.T) {
			loc := parseUTCOffset(tt.offset, "")
			_, offset := time.Now().In(loc).Zone()
			assert.Equal(t, tt.secs, offset)
		})
	}
}
