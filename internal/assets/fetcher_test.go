package assets

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	payload := bytes.Repeat([]byte("scene"), 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)

	fetcher := NewHTTPFetcher(5 * time.Second)
	got, err := fetcher.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("body length = %d, want %d", len(got), len(payload))
	}
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	fetcher := NewHTTPFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), srv.URL)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	fetcher := NewHTTPFetcher(50 * time.Millisecond)
	_, err := fetcher.Fetch(context.Background(), srv.URL)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}

func TestHTTPFetcherBadURL(t *testing.T) {
	fetcher := NewHTTPFetcher(time.Second)
	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/scene.splinecode")
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}
