package documents

import "time"

// Document associates extracted text with its synthesized audio.
// AudioURL stays empty until synthesis succeeds.
type Document struct {
	ID        string
	Content   string
	AudioURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAudio reports whether synthesis has completed for the document.
func (d Document) HasAudio() bool {
	return d.AudioURL != ""
}
