package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetcherFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><head><title>Fetched</title></head><body><h1>Hi</h1></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{UserAgent: "solvelog-test"}, srv.Client(), nil)
	page, err := f.Fetch(context.Background(), srv.URL+"/p")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Title() != "Fetched" || page.URL != srv.URL+"/p" {
		t.Errorf("page = %q at %s", page.Title(), page.URL)
	}
	if gotUA != "solvelog-test" {
		t.Errorf("User-Agent = %q, want solvelog-test", gotUA)
	}
}

func TestFetcherBreakerOpens(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{MaxFailures: 2, OpenTimeout: time.Minute}, srv.Client(), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(ctx, srv.URL); err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: err = %v, want upstream failure", i, err)
		}
	}

	_, err := f.Fetch(ctx, srv.URL)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable once the breaker is open", err)
	}
	if calls != 2 {
		t.Errorf("upstream calls = %d, want 2", calls)
	}
	if f.State() != "open" {
		t.Errorf("State() = %s, want open", f.State())
	}
}
