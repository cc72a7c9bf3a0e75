package script

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://members.adulttime.com/en/video/studio/title/123456", "123456", true},
		{"https://www.adulttime.com/en/video/other/98765", "98765", true},
		{"https://oopsie.tube/watch/4242", "4242", true},
		{"https://example.com/video/123456", "", false},
		{"not a url", "", false},
	}

	for _, tc := range cases {
		got, ok := ExtractVideoID(tc.url)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}

func TestConvertPattern(t *testing.T) {
	// t=0 samples are invalid upstream and must be dropped; v scales by 6.25.
	data := []byte(`[
		{"t": 0, "v": 10},
		{"t": 2000, "v": 16},
		{"t": 1000, "v": 8},
		{"t": 3000, "v": 0}
	]`)

	fs, err := ConvertPattern(data, "demo", 60000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fs.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(fs.Actions))
	}

	want := []Action{
		{At: 1000, Pos: 50},
		{At: 2000, Pos: 100},
		{At: 3000, Pos: 0},
	}
	for i, w := range want {
		if fs.Actions[i] != w {
			t.Errorf("action %d: got %+v, want %+v", i, fs.Actions[i], w)
		}
	}

	if fs.Range != 100 {
		t.Errorf("expected range 100, got %d", fs.Range)
	}
	if fs.Metadata == nil || fs.Metadata.Title != "demo" || fs.Metadata.Duration != 60000 {
		t.Errorf("unexpected metadata: %+v", fs.Metadata)
	}
}

func TestConvertPatternRejectsMalformed(t *testing.T) {
	if _, err := ConvertPattern([]byte(`{"not": "an array"}`), "", 0); err == nil {
		t.Error("expected error for non-array pattern")
	}
}

func TestFetcherFetch(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/pattern-data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"t": 1000, "v": 4}, {"t": 2000, "v": 8}]`)
	})
	mux.HandleFunc("/pattern", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("videoId") != "123456" {
			http.Error(w, "wrong video id", http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("pf") != "Adulttime" {
			http.Error(w, "wrong platform", http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"code": 0, "data": {"pattern": "%s/pattern-data"}}`, srv.URL)
	})

	f := NewFetcher(srv.URL+"/pattern", "Adulttime")
	fs, err := f.Fetch("123456", "demo", 120000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fs.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(fs.Actions))
	}
	if fs.Actions[0].Pos != 25 || fs.Actions[1].Pos != 50 {
		t.Errorf("unexpected positions: %+v", fs.Actions)
	}
}

func TestFetcherNoInteractiveContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": 404}`)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, "Adulttime")
	_, err := f.Fetch("123456", "", 0)
	if !errors.Is(err, ErrNoInteractiveContent) {
		t.Errorf("expected ErrNoInteractiveContent, got %v", err)
	}
}

func TestFetcherUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, "Adulttime")
	if _, err := f.Fetch("123456", "", 0); err == nil {
		t.Error("expected error for upstream failure")
	}
}
