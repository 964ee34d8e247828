package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultBridge {
		t.Fatalf("host = %q, want %q", u.Host, defaultBridge)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchRecordsEncodesQuery(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/records":
			gotQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(Batch{
				Records: []WireRecord{
					{Seq: 8, TS: "2026-03-01T10:00:00Z", Kind: "rx", Data: []byte{0x01, 'A'}},
					{Seq: 9, Kind: "sys", Text: "ready"},
				},
				Next: 9,
			})
		case "/api/link":
			_ = json.NewEncoder(w).Encode(Link{Connected: true, Port: "/dev/ttyUSB0", Baud: 115200})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	batch, err := c.FetchRecords(ctx, Query{Since: 7, Limit: 50})
	if err != nil {
		t.Fatalf("FetchRecords returned error: %v", err)
	}
	if gotQuery.Get("since") != "7" || gotQuery.Get("limit") != "50" {
		t.Fatalf("query = %v, want since=7 limit=50", gotQuery)
	}
	if batch.Next != 9 || len(batch.Records) != 2 {
		t.Fatalf("batch = %#v, want 2 records next=9", batch)
	}
	if got := batch.Records[0].Data; string(got) != "\x01A" {
		t.Fatalf("data = %q, want %q", got, "\x01A")
	}

	link, err := c.FetchLink(ctx)
	if err != nil {
		t.Fatalf("FetchLink returned error: %v", err)
	}
	if !link.Connected || link.Baud != 115200 {
		t.Fatalf("link = %#v, want connected at 115200", link)
	}

	if !strings.HasPrefix(gotUserAgent, "portscope/") {
		t.Fatalf("User-Agent = %q, want portscope/*", gotUserAgent)
	}
}

func TestClient_OmitsZeroQueryValues(t *testing.T) {
	t.Parallel()

	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"records":[],"next":0}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchRecords(context.Background(), Query{}); err != nil {
		t.Fatalf("FetchRecords returned error: %v", err)
	}
	if rawQuery != "" {
		t.Fatalf("raw query = %q, want empty", rawQuery)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/records":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/link":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchRecords(context.Background(), Query{})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchRecords error = %v, want decode response error", err)
	}

	_, err = c.FetchLink(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchLink error = %v, want status 500 error", err)
	}
}

func TestNilClient(t *testing.T) {
	var c *Client
	if _, err := c.FetchRecords(context.Background(), Query{}); err == nil {
		t.Fatalf("FetchRecords on nil client returned nil error")
	}
}
