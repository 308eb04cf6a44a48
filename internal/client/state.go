package client

// State is a Controller state.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file-selected"
	StateConverted    State = "converted"
	StatePlaying      State = "playing"
	StatePaused       State = "paused"
)

// Status is a user-facing status message.
type Status string

const (
	StatusNone       Status = ""
	StatusConverted  Status = "Audio is converted"
	StatusDownloaded Status = "Audio is downloaded"
	StatusPaused     Status = "Audio is paused"
	// StatusEnded is shown when playback reaches the end on its own.
	StatusEnded Status = "Audio finished"
)

// DownloadName is the file name suggested for saved audio.
const DownloadName = "audio.mp3"

// SelectedFile is a local document chosen for conversion.
type SelectedFile struct {
	Name string
	Path string
}
