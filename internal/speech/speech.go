package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyText is returned when there is nothing to synthesize.
var ErrEmptyText = errors.New("text is empty")

// Synthesizer renders text in the given language to an audio file at outPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang, outPath string) error
}

// WriteAtomic streams fill into <outPath>.part and renames it into place on success.
// On failure nothing is left at outPath.
func WriteAtomic(outPath string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	partPath := outPath + ".part"
	f, err := os.OpenFile(partPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(partPath)
		}
	}()

	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audio file: %w", err)
	}
	if err := os.Rename(partPath, outPath); err != nil {
		return fmt.Errorf("publish audio file: %w", err)
	}
	return nil
}
