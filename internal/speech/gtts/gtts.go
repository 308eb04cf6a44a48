package gtts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"docspeech-backend/internal/shared/telemetry"
	"docspeech-backend/internal/speech"
)

const (
	// DefaultBaseURL is the public Google Translate host.
	DefaultBaseURL = "https://translate.google.com"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// ErrUnsupportedLanguage is returned for malformed language codes.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var langPattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})?$`)

// Client synthesizes speech through the translate_tts endpoint, one request per chunk.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client. An empty baseURL uses DefaultBaseURL and a nil httpClient gets a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Synthesize fetches every chunk of text in order and writes the concatenated MP3 to outPath.
func (c *Client) Synthesize(ctx context.Context, text, lang, outPath string) error {
	if !langPattern.MatchString(lang) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	chunks := tokenize(text, maxChunkRunes)
	if len(chunks) == 0 {
		return speech.ErrEmptyText
	}

	start := time.Now()
	err := speech.WriteAtomic(outPath, func(w io.Writer) error {
		for i, chunk := range chunks {
			if err := c.fetchChunk(ctx, w, chunk, lang, i, len(chunks)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	telemetry.Info("speech.gtts.complete", map[string]any{
		"chunks":      len(chunks),
		"lang":        lang,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (c *Client) fetchChunk(ctx context.Context, w io.Writer, chunk, lang string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("q", chunk)
	q.Set("tl", lang)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))
	q.Set("client", "tw-ob")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gtts chunk %d/%d: %w", idx+1, total, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gtts chunk %d/%d: status %d: %s", idx+1, total, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("gtts chunk %d/%d: write: %w", idx+1, total, err)
	}
	return nil
}

var _ speech.Synthesizer = (*Client)(nil)
