package conversion

import "errors"

var (
	// ErrNoFile is returned when the request carried no file.
	ErrNoFile = errors.New("no file uploaded")
	// ErrUnsupportedFormat is returned for names without a .docx extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtraction wraps extractor failures.
	ErrExtraction = errors.New("text extraction failed")
	// ErrEmptyText is returned when extraction produced no speakable text.
	ErrEmptyText = errors.New("extracted text is empty")
	// ErrPersist wraps document store failures.
	ErrPersist = errors.New("document persistence failed")
	// ErrSynthesis wraps synthesizer failures.
	ErrSynthesis = errors.New("speech synthesis failed")
)
