package bootstrap_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docspeech-backend/internal/bootstrap"
	"docspeech-backend/internal/shared/config"
)

type fileSynth struct{}

func (fileSynth) Synthesize(ctx context.Context, text, lang, outPath string) error {
	return os.WriteFile(outPath, []byte("ID3:"+lang+":"+text), 0o644)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	return config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		UploadDir:       filepath.Join(root, "uploads"),
		AudioDir:        filepath.Join(root, "audio"),
		MaxUploadBytes:  1 << 20,
		DocStore:        config.StoreMemory,
		TTSProvider:     config.TTSGoogle,
		TTSLanguage:     "en",
	}
}

func sampleDocx(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestConvertThenServeAudio(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)

	app, err := bootstrap.Build(cfg, bootstrap.WithSynthesizer(fileSynth{}))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	router := app.Router

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "sample.docx", sampleDocx(t, "Hello world")))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		AudioURL string `json:"audioUrl"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode convert response: %v", err)
	}
	if !strings.HasPrefix(created.AudioURL, "/audio/") || !strings.HasSuffix(created.AudioURL, ".mp3") {
		t.Fatalf("unexpected audioUrl %q", created.AudioURL)
	}

	id := strings.TrimSuffix(strings.TrimPrefix(created.AudioURL, "/audio/"), ".mp3")
	doc, err := app.DocumentsRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Content != "Hello world" || doc.AudioURL != created.AudioURL {
		t.Fatalf("unexpected record: %+v", doc)
	}

	respAudio := httptest.NewRecorder()
	router.ServeHTTP(respAudio, httptest.NewRequest(http.MethodGet, created.AudioURL, nil))
	if respAudio.Code != http.StatusOK {
		t.Fatalf("expected 200 for audio, got %d", respAudio.Code)
	}
	if respAudio.Body.Len() == 0 {
		t.Fatalf("expected non-empty audio body")
	}
	if ct := respAudio.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %q", ct)
	}

	respMissing := httptest.NewRecorder()
	router.ServeHTTP(respMissing, httptest.NewRequest(http.MethodGet, "/audio/0b7c9f1e-missing.mp3", nil))
	if respMissing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing audio, got %d", respMissing.Code)
	}

	entries, err := os.ReadDir(cfg.UploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty upload dir, found %d entries", len(entries))
	}
}

func TestUnsupportedUploadCreatesNoRecord(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(testConfig(t), bootstrap.WithSynthesizer(fileSynth{}))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, uploadRequest(t, "sample.pdf", []byte("%PDF-1.4")))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"error":"Unsupported file format"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	audio, _ := os.ReadDir(app.Config.AudioDir)
	if len(audio) != 0 {
		t.Fatalf("no audio expected, found %d files", len(audio))
	}
}

func TestHealthMetricsAndCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(testConfig(t), bootstrap.WithSynthesizer(fileSynth{}))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected health response %d %s", resp.Code, resp.Body.String())
	}

	respMetrics := httptest.NewRecorder()
	app.Router.ServeHTTP(respMetrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(respMetrics.Body.String(), "conversion_started_total") {
		t.Fatalf("metrics missing conversion counters: %s", respMetrics.Body.String())
	}

	pre := httptest.NewRequest(http.MethodOptions, "/convert", nil)
	pre.Header.Set("Origin", "http://localhost:3000")
	pre.Header.Set("Access-Control-Request-Method", "POST")
	respPre := httptest.NewRecorder()
	app.Router.ServeHTTP(respPre, pre)
	if respPre.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", respPre.Code)
	}
	if got := respPre.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestSQLiteStoreSelection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.DocStore = config.StoreSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "docs.db")

	app, err := bootstrap.Build(cfg, bootstrap.WithSynthesizer(fileSynth{}))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	if app.DB == nil {
		t.Fatalf("expected sqlite connection")
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, uploadRequest(t, "notes.docx", sampleDocx(t, "Stored in sqlite")))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPostgresWithoutURLFailsOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	cfg.DocStore = config.StorePostgres

	if _, err := bootstrap.Build(cfg, bootstrap.WithSynthesizer(fileSynth{})); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}

	cfg.Env = "dev"
	app, err := bootstrap.Build(cfg, bootstrap.WithSynthesizer(fileSynth{}))
	if err != nil {
		t.Fatalf("dev should fall back to memory: %v", err)
	}
	if app.Config.DocStore != config.StoreMemory {
		t.Fatalf("expected memory fallback, got %s", app.Config.DocStore)
	}
}
