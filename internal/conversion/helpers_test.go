package conversion

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"docspeech-backend/internal/documents"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeSynth struct {
	mu    sync.Mutex
	err   error
	calls int
	texts []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, lang, outPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte("ID3"+text), 0o644)
}

// failingRepo wraps a MemoryRepo and fails selected operations.
type failingRepo struct {
	*documents.MemoryRepo
	createErr error
	updateErr error
}

func (r *failingRepo) Create(ctx context.Context, content string) (documents.Document, error) {
	if r.createErr != nil {
		return documents.Document{}, r.createErr
	}
	return r.MemoryRepo.Create(ctx, content)
}

func (r *failingRepo) UpdateAudioURL(ctx context.Context, id, audioURL string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	return r.MemoryRepo.UpdateAudioURL(ctx, id, audioURL)
}

var errBoom = errors.New("boom")

func writeUpload(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	return path
}

func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	body := ""
	for _, p := range paragraphs {
		body += "<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>"
	}
	path := filepath.Join(t.TempDir(), "build.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	zw := zip.NewWriter(f)
	entries := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`, body)},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read docx: %v", err)
	}
	return data
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s to be empty, found %d entries (first %q)", dir, len(entries), entries[0].Name())
	}
}

type pathRecorder struct {
	path string
}

func (p *pathRecorder) ExtractText(ctx context.Context, path string) (string, error) {
	p.path = path
	return "recorded", nil
}
