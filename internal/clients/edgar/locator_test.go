package edgar

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jmhodges/clock"
)

// recordingMux tracks every requested path so tests can assert which
// cascade strategies ran.
type recordingMux struct {
	mu       sync.Mutex
	requests []string
	handler  http.HandlerFunc
}

func (m *recordingMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.Path)
	m.mu.Unlock()
	m.handler(w, r)
}

func (m *recordingMux) requested(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.requests {
		if strings.HasSuffix(p, path) {
			return true
		}
	}
	return false
}

func TestLocateFromIndexJSON(t *testing.T) {
	mux := &recordingMux{}
	mux.handler = func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/index.json") {
			w.Write([]byte(`{"directory":{"item":[
				{"name":"primary_doc.xml"},
				{"name":"InfoTable.xml"},
				{"name":"filing.txt"}
			]}}`))
			return
		}
		http.NotFound(w, r)
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	url, err := client.LocateInfoTable("0001647251", "0001-25-000001")
	if err != nil {
		t.Fatalf("LocateInfoTable failed: %v", err)
	}

	if !strings.HasSuffix(url, "/1647251/000125000001/InfoTable.xml") {
		t.Errorf("Expected InfoTable.xml under trimmed CIK and de-hyphenated accession, got %s", url)
	}
	if mux.requested("primary_doc.xml") {
		t.Error("Strategy 1 must never download primary_doc.xml")
	}
}

func TestLocateFromDirectoryPageByPattern(t *testing.T) {
	mux := &recordingMux{}
	mux.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/index.json"):
			http.NotFound(w, r)
		case strings.HasSuffix(r.URL.Path, "/000125000001"):
			w.Write([]byte(`<html><body>
				<a href="primary_doc.xml">primary</a>
				<a href="form13fInfoTable.xml">info table</a>
			</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	url, err := client.LocateInfoTable("0001647251", "0001-25-000001")
	if err != nil {
		t.Fatalf("LocateInfoTable failed: %v", err)
	}
	if !strings.HasSuffix(url, "form13fInfoTable.xml") {
		t.Errorf("Expected pattern-matching link to win, got %s", url)
	}
	if mux.requested("primary_doc.xml") {
		t.Error("Pattern match should not download candidates")
	}
}

func TestLocateFromDirectoryPageByRootElement(t *testing.T) {
	mux := &recordingMux{}
	mux.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/index.json"):
			http.NotFound(w, r)
		case strings.HasSuffix(r.URL.Path, "/000125000001"):
			// No link matches the info-table pattern; the locator has to
			// inspect each candidate's root element.
			w.Write([]byte(`<html><body>
				<a href="primary_doc.xml">primary</a>
				<a href="holdings.xml">data</a>
			</body></html>`))
		case strings.HasSuffix(r.URL.Path, "/primary_doc.xml"):
			w.Write([]byte(`<?xml version="1.0"?><edgarSubmission></edgarSubmission>`))
		case strings.HasSuffix(r.URL.Path, "/holdings.xml"):
			w.Write([]byte(`<?xml version="1.0"?><informationTable></informationTable>`))
		default:
			http.NotFound(w, r)
		}
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	url, err := client.LocateInfoTable("0001647251", "0001-25-000001")
	if err != nil {
		t.Fatalf("LocateInfoTable failed: %v", err)
	}
	if !strings.HasSuffix(url, "holdings.xml") {
		t.Errorf("Expected the informationTable document, got %s", url)
	}
}

func TestLocateByProbingCommonNames(t *testing.T) {
	mux := &recordingMux{}
	mux.handler = func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/infotable.xml") {
			w.Write([]byte(`<informationTable></informationTable>`))
			return
		}
		http.NotFound(w, r)
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	url, err := client.LocateInfoTable("0001647251", "0001-25-000001")
	if err != nil {
		t.Fatalf("LocateInfoTable failed: %v", err)
	}
	if !strings.HasSuffix(url, "/infotable.xml") {
		t.Errorf("Expected probe hit on infotable.xml, got %s", url)
	}
}

func TestLocateExhaustedReturnsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	_, err := client.LocateInfoTable("0001647251", "0001-25-000001")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestIsInfoTableName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"InfoTable.xml", true},
		{"form13fInfoTable.xml", true},
		{"INFOTABLE.XML", true},
		{"informationtable.xml", true},
		{"primary_doc.xml", false},
		{"InfoTable.html", false},
	}
	for _, tt := range tests {
		if got := isInfoTableName(tt.name); got != tt.want {
			t.Errorf("isInfoTableName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
