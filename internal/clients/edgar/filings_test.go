package edgar

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmhodges/clock"
)

const submissionsFixture = `{
	"filings": {
		"recent": {
			"form": ["13F-HR", "8-K", "13F-HR/A", "4", "13F-HR", "13F-HR"],
			"accessionNumber": ["0001-25-000001", "0001-25-000002", "0001-24-000003", "0001-24-000004", "0001-24-000005", "0001-24-000006"],
			"filingDate": ["2025-02-14", "2025-01-10", "2024-11-20", "2024-11-01", "2024-08-14", "2024-05-15"],
			"reportDate": ["2024-12-31", "", "2024-09-30", "", "2024-06-30", "2024-03-31"]
		}
	}
}`

func TestListFilingsSelectsFormAndAmendments(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(submissionsFixture))
	}))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	filings, err := client.ListFilings("1647251", 3)
	if err != nil {
		t.Fatalf("ListFilings failed: %v", err)
	}

	if gotPath != "/submissions/CIK0001647251.json" {
		t.Errorf("Expected zero-padded CIK in path, got %s", gotPath)
	}

	if len(filings) != 3 {
		t.Fatalf("Expected 3 filings, got %d", len(filings))
	}

	// Document order preserved: newest first, amendments included.
	expected := []Filing{
		{Accession: "0001-25-000001", Form: "13F-HR", FilingDate: "2025-02-14", ReportDate: "2024-12-31"},
		{Accession: "0001-24-000003", Form: "13F-HR/A", FilingDate: "2024-11-20", ReportDate: "2024-09-30"},
		{Accession: "0001-24-000005", Form: "13F-HR", FilingDate: "2024-08-14", ReportDate: "2024-06-30"},
	}
	for i, want := range expected {
		if filings[i] != want {
			t.Errorf("Filing %d: expected %+v, got %+v", i, want, filings[i])
		}
	}
}

func TestListFilingsFewerMatchesThanMax(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(submissionsFixture))
	}))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	filings, err := client.ListFilings("1647251", 10)
	if err != nil {
		t.Fatalf("Expected no error when fewer matches exist, got %v", err)
	}
	if len(filings) != 4 {
		t.Errorf("Expected all 4 matching filings, got %d", len(filings))
	}
}

func TestListFilingsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	_, err := client.ListFilings("1647251", 4)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %T: %v", err, err)
	}
}

func TestListFilingsTransportErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(t, server.URL, clock.NewFake())
	_, err := client.ListFilings("1647251", 4)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
}

func TestPadCIK(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1647251", "0001647251"},
		{"0001647251", "0001647251"},
		{"1", "0000000001"},
	}
	for _, tt := range tests {
		if got := padCIK(tt.in); got != tt.want {
			t.Errorf("padCIK(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimCIK(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0001647251", "1647251"},
		{"1647251", "1647251"},
		{"0000000000", "0"},
	}
	for _, tt := range tests {
		if got := trimCIK(tt.in); got != tt.want {
			t.Errorf("trimCIK(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
