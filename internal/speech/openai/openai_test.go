package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docspeech-backend/internal/speech"
)

func TestSynthesizeWritesResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		for key, want := range map[string]string{"model": "tts-1", "voice": "nova", "input": "Hello world", "response_format": "mp3"} {
			if body[key] != want {
				t.Errorf("expected %s=%q, got %v", key, want, body[key])
			}
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-fake-mp3"))
	}))
	t.Cleanup(srv.Close)

	synth, err := New(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", Voice: "nova", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}

	out := filepath.Join(t.TempDir(), "doc.mp3")
	if err := synth.Synthesize(context.Background(), "  Hello world ", "en", out); err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "ID3-fake-mp3" {
		t.Fatalf("unexpected audio bytes %q", data)
	}
}

func TestSynthesizeAPIErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid voice","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	synth, err := New(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}

	out := filepath.Join(t.TempDir(), "doc.mp3")
	err = synth.Synthesize(context.Background(), "Hello", "en", out)
	if err == nil || !strings.Contains(err.Error(), "status=400") {
		t.Fatalf("expected status=400 error, got %v", err)
	}

	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("expected no audio file, stat err=%v", statErr)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	synth, err := New(Options{APIKey: "k", BaseURL: "http://127.0.0.1:1/v1"})
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	err = synth.Synthesize(context.Background(), " ", "en", filepath.Join(t.TempDir(), "x.mp3"))
	if !errors.Is(err, speech.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}
