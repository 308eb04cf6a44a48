package conversion

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"docspeech-backend/internal/documents"
	"docspeech-backend/internal/extract"
	"docspeech-backend/internal/shared/metrics"
	"docspeech-backend/internal/shared/telemetry"
	"docspeech-backend/internal/shared/util"
	"docspeech-backend/internal/speech"
)

const (
	acceptedExtension = ".docx"
	audioExtension    = ".mp3"
	// AudioURLPrefix is the public path under which audio files are served.
	AudioURLPrefix = "/audio/"
)

// Upload describes a file already written to the upload directory.
type Upload struct {
	// Name is the client-supplied file name; only its extension is inspected.
	Name      string
	Path      string
	RequestID string
}

// Result is a completed conversion.
type Result struct {
	DocumentID string
	AudioURL   string
}

// Service runs the upload -> text -> record -> audio pipeline.
type Service struct {
	Extractor    extract.Extractor
	Synth        speech.Synthesizer
	Repo         documents.Repo
	AudioDir     string
	Language     string
	SynthTimeout time.Duration
}

// Convert runs every stage in order and stops at the first failure.
// The upload is deleted before Convert returns, whatever the outcome.
// On failures after the record is created, Result.DocumentID is still set.
func (s *Service) Convert(ctx context.Context, up Upload) (Result, error) {
	if strings.TrimSpace(up.Path) == "" {
		return Result{}, ErrNoFile
	}
	base := map[string]any{"request_id": up.RequestID}
	defer TempFile{Path: up.Path}.Release(base)

	if !util.HasExtension(up.Name, acceptedExtension) {
		metrics.IncConversionFailed("validate")
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(up.Name))
	}

	start := time.Now()
	metrics.IncConversionStarted()

	text, err := s.Extractor.ExtractText(ctx, up.Path)
	if err != nil {
		metrics.IncConversionFailed("extract")
		return Result{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.IncConversionFailed("extract")
		return Result{}, ErrEmptyText
	}

	doc, err := s.Repo.Create(ctx, text)
	if err != nil {
		metrics.IncConversionFailed("persist")
		return Result{}, fmt.Errorf("%w: create: %v", ErrPersist, err)
	}
	res := Result{DocumentID: doc.ID}

	fileName := doc.ID + audioExtension
	if err := s.synthesize(ctx, text, filepath.Join(s.AudioDir, fileName)); err != nil {
		metrics.IncConversionFailed("synthesize")
		s.logOrphan(up, doc.ID, "synthesize", err)
		return res, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	audioURL := AudioURLPrefix + fileName
	if err := s.Repo.UpdateAudioURL(ctx, doc.ID, audioURL); err != nil {
		metrics.IncConversionFailed("finalize")
		s.logOrphan(up, doc.ID, "finalize", err)
		return res, fmt.Errorf("%w: update: %v", ErrPersist, err)
	}
	res.AudioURL = audioURL

	elapsed := time.Since(start)
	metrics.IncConversionCompleted()
	metrics.ObserveConversionDurationMs(float64(elapsed.Milliseconds()))
	telemetry.Info("conversion.complete", map[string]any{
		"request_id":  up.RequestID,
		"document_id": doc.ID,
		"text_chars":  len([]rune(text)),
		"duration_ms": elapsed.Milliseconds(),
	})
	return res, nil
}

func (s *Service) synthesize(ctx context.Context, text, outPath string) error {
	if s.SynthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.SynthTimeout)
		defer cancel()
	}
	lang := s.Language
	if lang == "" {
		lang = "en"
	}
	return s.Synth.Synthesize(ctx, text, lang, outPath)
}

// logOrphan records a document left without audio. The record is kept as is.
func (s *Service) logOrphan(up Upload, documentID, stage string, err error) {
	telemetry.Warn("conversion.orphaned", map[string]any{
		"request_id":  up.RequestID,
		"document_id": documentID,
		"stage":       stage,
		"err":         err,
	})
}
