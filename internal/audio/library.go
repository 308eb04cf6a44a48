package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"docspeech-backend/internal/shared/util"
)

var (
	// ErrNotFound is returned when no regular file exists for the name.
	ErrNotFound = errors.New("audio file not found")
	// ErrInvalidName is returned for names that are not a single path segment.
	ErrInvalidName = errors.New("invalid audio file name")
)

// partSuffix marks audio still being written.
const partSuffix = ".part"

// Library resolves audio file names under a fixed directory.
type Library struct {
	Dir string
}

// NewLibrary constructs a Library rooted at dir.
func NewLibrary(dir string) (*Library, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve audio dir: %w", err)
	}
	return &Library{Dir: abs}, nil
}

// Resolve returns the absolute path of a regular file named name inside the directory.
func (l *Library) Resolve(name string) (string, error) {
	if !util.IsPathSegment(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	if strings.HasSuffix(name, partSuffix) {
		return "", ErrNotFound
	}
	path := filepath.Join(l.Dir, name)
	rel, err := filepath.Rel(l.Dir, path)
	if err != nil || rel != name {
		return "", ErrInvalidName
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat audio file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return path, nil
}

// ContentType returns the media type served for name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
