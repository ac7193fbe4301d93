package edgar

import (
	"compress/gzip"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rs/zerolog"
)

func testClient(t *testing.T, serverURL string, clk clock.Clock) *Client {
	t.Helper()
	return NewClient("FundWatch test@example.com", zerolog.Nop(), Options{
		BaseURL:     serverURL,
		ArchivesURL: serverURL,
		Clock:       clk,
	})
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	body, err := client.Fetch(server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("Expected body %q, got %q", "ok", string(body))
	}
	if gotUA != "FundWatch test@example.com" {
		t.Errorf("Expected identifying User-Agent, got %q", gotUA)
	}
}

func TestFetchDecompressesGzip(t *testing.T) {
	// EDGAR gzips responses whenever the request advertises gzip support,
	// which Go's transport does on its own. Fetch must return the decoded
	// bytes, not the compressed stream.
	const payload = `{"filings":{"recent":{"form":[]}}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			t.Error("Transport should negotiate gzip itself")
			w.Write([]byte(payload))
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(payload))
		gz.Close()
	}))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	body, err := client.Fetch(server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != payload {
		t.Errorf("Expected decompressed body %q, got %q", payload, string(body))
	}

	filings, err := client.ListFilings("1647251", 2)
	if err != nil {
		t.Fatalf("ListFilings over a gzip response failed: %v", err)
	}
	if len(filings) != 0 {
		t.Errorf("Expected no filings from empty fixture, got %d", len(filings))
	}
}

func TestFetchNon2xxReturnsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	_, err := client.Fetch(server.URL)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
	if te.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", te.StatusCode)
	}
	if te.URL != server.URL {
		t.Errorf("Expected URL %q in error, got %q", server.URL, te.URL)
	}
}

func TestFetchNetworkErrorReturnsTransportError(t *testing.T) {
	client := testClient(t, "http://127.0.0.1:1", clock.NewFake())
	_, err := client.Fetch("http://127.0.0.1:1/nothing")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
	if te.StatusCode != 0 {
		t.Errorf("Expected no status for a failed request, got %d", te.StatusCode)
	}
}

func TestThrottleEnforcesMinimumGap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	clk := clock.NewFake()
	client := testClient(t, server.URL, clk)

	const n = 4
	before := clk.Now()
	for i := 0; i < n; i++ {
		if _, err := client.Fetch(server.URL); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}

	// N consecutive calls must take at least (N-1) * gap. The fake clock
	// only advances when the throttle sleeps.
	elapsed := clk.Now().Sub(before)
	min := time.Duration(n-1) * defaultMinFetchGap
	if elapsed < min {
		t.Errorf("Expected at least %s between %d calls, got %s", min, n, elapsed)
	}
}

func TestThrottleFirstCallDoesNotWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	clk := clock.NewFake()
	client := testClient(t, server.URL, clk)

	before := clk.Now()
	if _, err := client.Fetch(server.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := clk.Now().Sub(before); got != 0 {
		t.Errorf("First call should not be throttled, slept %s", got)
	}
}
