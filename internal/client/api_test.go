package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAPIClientConvertAndDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/convert", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("read form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "sample.docx" || string(data) != "docx-bytes" {
			t.Errorf("unexpected upload %q (%q)", header.Filename, data)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"audioUrl":"/audio/doc-1.mp3","message":"File successfully converted and downloaded"}`))
	})
	mux.HandleFunc("/audio/doc-1.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	path := writeFile(t, "sample.docx", []byte("docx-bytes"))

	api, err := NewAPIClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	url, err := api.Convert(context.Background(), SelectedFile{Path: path})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if url != "/audio/doc-1.mp3" {
		t.Fatalf("unexpected audio url %q", url)
	}

	data, err := api.Download(context.Background(), url)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "ID3-bytes" {
		t.Fatalf("unexpected audio bytes %q", data)
	}
}

func TestAPIClientSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Unsupported file format"}`))
	}))
	t.Cleanup(srv.Close)

	path := writeFile(t, "sample.pdf", []byte("%PDF"))

	api, err := NewAPIClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = api.Convert(context.Background(), SelectedFile{Path: path})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Unsupported file format" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}

	_, err = api.Download(context.Background(), "/audio/missing.mp3")
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError from download, got %v", err)
	}
}

func TestNewAPIClientRejectsBadURL(t *testing.T) {
	if _, err := NewAPIClient("localhost:5000", nil); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
}

func TestFileSaver(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out", "speech.mp3")
	if err := (FileSaver{Path: dst}).Save(DownloadName, []byte("ID3")); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "ID3" {
		t.Fatalf("unexpected saved bytes %q", data)
	}
}
