package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-autotranslate/internal/languages"
)

func TestHTTPTransportPostsLibreTranslatePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var payload translatePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Q != "Pantai Balekambang" || payload.Source != "id" || payload.Target != "de" || payload.Format != "text" {
			t.Errorf("unexpected payload %+v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translatedText":"Strand Balekambang"}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "secret", server.Client())
	got, err := transport.Translate(context.Background(), Request{
		Text:   "Pantai Balekambang",
		Source: languages.Indonesian,
		Target: languages.German,
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Strand Balekambang" {
		t.Fatalf("unexpected translation %q", got)
	}
}

func TestHTTPTransportMapsFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, func(err error) bool { return errors.Is(err, ErrRateLimited) }},
		{"server error", http.StatusInternalServerError, "boom", func(err error) bool {
			var httpErr *HTTPError
			return errors.As(err, &httpErr) && httpErr.StatusCode == 500 && httpErr.Body == "boom"
		}},
		{"empty translation", http.StatusOK, `{"translatedText":"  "}`, func(err error) bool { return errors.Is(err, ErrEmptyTranslation) }},
		{"malformed body", http.StatusOK, `{"translatedText":`, func(err error) bool { return err != nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewHTTPTransport(server.URL, "secret", server.Client()).Translate(context.Background(), Request{
				Text:   "Halo",
				Source: languages.Indonesian,
				Target: languages.English,
			})
			if !tc.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestHTTPTransportWithoutCredentialsIsUnavailable(t *testing.T) {
	_, err := NewHTTPTransport("http://localhost", "", nil).Translate(context.Background(), Request{Text: "Halo"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
