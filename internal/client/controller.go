package client

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an action is not enabled in the current state.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrNoPlayer is returned by Play and Pause when no Player is configured.
	ErrNoPlayer = errors.New("no audio player configured")
)

// Converter uploads a document and returns the audio reference.
type Converter interface {
	Convert(ctx context.Context, file SelectedFile) (string, error)
}

// Downloader fetches the bytes behind an audio reference.
type Downloader interface {
	Download(ctx context.Context, audioURL string) ([]byte, error)
}

// Saver persists downloaded audio under a suggested name.
type Saver interface {
	Save(name string, data []byte) error
}

// Player controls playback of one audio source at a time.
type Player interface {
	// Play starts audioURL, or resumes it when it is already loaded.
	Play(audioURL string) error
	Pause() error
}

// Alerter surfaces a blocking failure message.
type Alerter interface {
	Alert(message string)
}

// Deps are the Controller collaborators. Player may be nil when playback is not available.
type Deps struct {
	Converter  Converter
	Downloader Downloader
	Saver      Saver
	Player     Player
	Alerter    Alerter
	// OnStatus, if set, is called whenever the status message changes.
	OnStatus func(Status)
}

// Controller is the converter UI state machine. It is not safe for concurrent use.
type Controller struct {
	deps     Deps
	state    State
	file     *SelectedFile
	audioURL string
	status   Status
}

// NewController returns a Controller in the idle state.
func NewController(deps Deps) *Controller {
	return &Controller{deps: deps, state: StateIdle}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Status returns the last status message.
func (c *Controller) Status() Status { return c.status }

// AudioURL returns the audio reference, empty before a successful conversion.
func (c *Controller) AudioURL() string { return c.audioURL }

// File returns the selected file, if any.
func (c *Controller) File() (SelectedFile, bool) {
	if c.file == nil {
		return SelectedFile{}, false
	}
	return *c.file, true
}

// CanConvert reports whether the convert action is enabled.
func (c *Controller) CanConvert() bool { return c.file != nil }

// CanDownload reports whether the download action is enabled.
func (c *Controller) CanDownload() bool { return c.state == StateConverted }

// CanPlay reports whether the play action is enabled.
func (c *Controller) CanPlay() bool { return c.state == StateConverted || c.state == StatePaused }

// CanPause reports whether the pause action is enabled.
func (c *Controller) CanPause() bool { return c.state == StatePlaying }

// SelectFile replaces any prior selection and drops the previous audio reference.
func (c *Controller) SelectFile(file SelectedFile) {
	if c.state == StatePlaying && c.deps.Player != nil {
		if err := c.deps.Player.Pause(); err != nil {
			c.alert(fmt.Sprintf("Failed to stop playback: %v", err))
		}
	}
	f := file
	c.file = &f
	c.audioURL = ""
	c.state = StateFileSelected
	c.setStatus(StatusNone)
}

// Convert uploads the selected file. On failure the state is left unchanged.
func (c *Controller) Convert(ctx context.Context) error {
	if !c.CanConvert() {
		return c.invalid("convert")
	}
	url, err := c.deps.Converter.Convert(ctx, *c.file)
	if err != nil {
		c.alert(fmt.Sprintf("Failed to convert file: %v", err))
		return err
	}
	if c.state == StatePlaying && c.deps.Player != nil {
		if err := c.deps.Player.Pause(); err != nil {
			c.alert(fmt.Sprintf("Failed to stop playback: %v", err))
		}
	}
	c.audioURL = url
	c.state = StateConverted
	c.setStatus(StatusConverted)
	return nil
}

// Download fetches the audio and hands it to the Saver. The state never changes.
func (c *Controller) Download(ctx context.Context) error {
	if !c.CanDownload() {
		return c.invalid("download")
	}
	data, err := c.deps.Downloader.Download(ctx, c.audioURL)
	if err == nil {
		err = c.deps.Saver.Save(DownloadName, data)
	}
	if err != nil {
		c.alert(fmt.Sprintf("Failed to download audio: %v", err))
		return err
	}
	c.setStatus(StatusDownloaded)
	return nil
}

// Play starts or resumes playback.
func (c *Controller) Play() error {
	if !c.CanPlay() {
		return c.invalid("play")
	}
	if c.deps.Player == nil {
		c.alert(ErrNoPlayer.Error())
		return ErrNoPlayer
	}
	if err := c.deps.Player.Play(c.audioURL); err != nil {
		c.alert(fmt.Sprintf("Failed to play audio: %v", err))
		return err
	}
	c.state = StatePlaying
	if c.status == StatusPaused || c.status == StatusEnded {
		c.setStatus(StatusNone)
	}
	return nil
}

// Pause pauses playback on user request.
func (c *Controller) Pause() error {
	if !c.CanPause() {
		return c.invalid("pause")
	}
	if c.deps.Player == nil {
		c.alert(ErrNoPlayer.Error())
		return ErrNoPlayer
	}
	if err := c.deps.Player.Pause(); err != nil {
		c.alert(fmt.Sprintf("Failed to pause audio: %v", err))
		return err
	}
	c.state = StatePaused
	c.setStatus(StatusPaused)
	return nil
}

// Ended records that playback reached the end.
func (c *Controller) Ended() error {
	if c.state != StatePlaying {
		return c.invalid("ended")
	}
	c.state = StatePaused
	c.setStatus(StatusEnded)
	return nil
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, c.state)
}

func (c *Controller) alert(msg string) {
	if c.deps.Alerter != nil {
		c.deps.Alerter.Alert(msg)
	}
}

func (c *Controller) setStatus(s Status) {
	if s == c.status {
		return
	}
	c.status = s
	if c.deps.OnStatus != nil {
		c.deps.OnStatus(s)
	}
}
