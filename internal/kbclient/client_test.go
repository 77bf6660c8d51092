package kbclient

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type payload struct {
	Data []struct {
		Title string `json:"title"`
	} `json:"data"`
}

func TestGet_DecodesJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/articles" {
			t.Errorf("path = %s, want /articles", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"title":"One"},{"title":"Two"}]}`))
	}))
	defer ts.Close()

	c := New(ts.URL + "/")
	var out payload
	if err := c.Get(context.Background(), "/articles", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out.Data) != 2 || out.Data[1].Title != "Two" {
		t.Errorf("decoded %+v", out)
	}
}

func TestGet_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	err := New(ts.URL).Get(context.Background(), "/articles", &payload{})
	if err == nil {
		t.Fatal("expected error for 503")
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", se.StatusCode)
	}
	if err.Error() != "API error: 503 Service Unavailable" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGet_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	err := New(ts.URL).Get(context.Background(), "/articles", &payload{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if de.Endpoint != "/articles" {
		t.Errorf("Endpoint = %q", de.Endpoint)
	}
}

func TestGet_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	err := New(url).Get(context.Background(), "/articles", &payload{})
	if err == nil {
		t.Fatal("expected transport error against a closed server")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Error("transport failure should not be a StatusError")
	}
}

func TestGet_SendsAuthorization(t *testing.T) {
	want := BasicAuth("agent@example.com", "secret")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("Authorization = %q, want %q", got, want)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL, WithAuthorization(want), WithUserAgent("kbridge-test"))
	if err := c.Get(context.Background(), "/x.json", &struct{}{}); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestGet_HonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := New(ts.URL, WithTimeout(0)).Get(ctx, "/slow", &struct{}{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestBasicAuth(t *testing.T) {
	got := BasicAuth("agent@example.com", "abc123")
	if !strings.HasPrefix(got, "Basic ") {
		t.Fatalf("missing Basic prefix: %q", got)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, "Basic "))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw) != "agent@example.com/token:abc123" {
		t.Errorf("credential = %q", raw)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	if got := New("https://kb.example.com///").BaseURL(); got != "https://kb.example.com" {
		t.Errorf("BaseURL = %q", got)
	}
}
