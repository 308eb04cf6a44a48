package extract

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// ErrUnreadable is returned when the file is not a readable Word document.
var ErrUnreadable = errors.New("unreadable document")

// Extractor turns an uploaded document on disk into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// DocxExtractor reads word/document.xml from a .docx archive.
// Library used: github.com/nguyenthenguyen/docx.
type DocxExtractor struct{}

// ExtractText returns the document's raw text with paragraphs separated by newlines.
func (DocxExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("extract text path=%s: %w: %v", path, ErrUnreadable, err)
	}
	defer r.Close()

	raw := r.Editable().GetContent()
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("extract text path=%s: %w: document.xml is empty", path, ErrUnreadable)
	}
	text, err := stripDocxXML(raw)
	if err != nil {
		return "", fmt.Errorf("extract text path=%s: %w: %v", path, ErrUnreadable, err)
	}
	return text, nil
}

func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				buf.WriteString("\n\n")
			case "br", "cr":
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

var _ Extractor = DocxExtractor{}
