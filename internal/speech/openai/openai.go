package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"docspeech-backend/internal/shared/telemetry"
	"docspeech-backend/internal/speech"
)

const (
	defaultModel   = "tts-1"
	defaultVoice   = "alloy"
	defaultTimeout = 120 * time.Second
	// maxInputChars is the /audio/speech input limit.
	maxInputChars = 4096
)

// Options configures a Synthesizer.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Voice      string
	HTTPClient *http.Client
	MaxRetries int
}

// Synthesizer calls the OpenAI /audio/speech endpoint and stores the mp3 response.
type Synthesizer struct {
	client *openai.Client
	model  string
	voice  string
}

// New constructs a Synthesizer.
func New(opts Options) (*Synthesizer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = defaultModel
	}
	if strings.TrimSpace(opts.Voice) == "" {
		opts.Voice = defaultVoice
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	client := openai.NewClient(reqOpts...)
	return &Synthesizer{client: &client, model: opts.Model, voice: opts.Voice}, nil
}

// Synthesize renders text as mp3. The voice picks the language from the input, so lang is only logged.
func (s *Synthesizer) Synthesize(ctx context.Context, text, lang, outPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return speech.ErrEmptyText
	}
	if len([]rune(text)) > maxInputChars {
		return fmt.Errorf("openai speech: input exceeds %d characters", maxInputChars)
	}

	start := time.Now()
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return fmt.Errorf("openai speech request failed (status=%d): %s", apiErr.StatusCode, strings.TrimSpace(apiErr.Message))
		}
		return fmt.Errorf("openai speech request failed: %w", err)
	}
	defer resp.Body.Close()

	err = speech.WriteAtomic(outPath, func(w io.Writer) error {
		if _, err := io.Copy(w, resp.Body); err != nil {
			return fmt.Errorf("openai speech: write audio: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	telemetry.Info("speech.openai.complete", map[string]any{
		"model":       s.model,
		"voice":       s.voice,
		"lang":        lang,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

var _ speech.Synthesizer = (*Synthesizer)(nil)
