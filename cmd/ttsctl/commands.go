package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"docspeech-backend/internal/client"
)

const defaultServer = "http://localhost:5000"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ttsctl",
		Short:         "Convert Word documents to speech via the conversion server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConvertCommand())
	return cmd
}

type convertOptions struct {
	server   string
	out      string
	timeout  time.Duration
	download bool
}

func newConvertCommand() *cobra.Command {
	opts := convertOptions{}
	cmd := &cobra.Command{
		Use:     "convert FILE",
		Short:   "Upload a .docx file and save the synthesized mp3",
		Args:    cobra.ExactArgs(1),
		Example: `ttsctl convert report.docx --out report.mp3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.server, "server", defaultServer, "conversion server base URL")
	cmd.Flags().StringVarP(&opts.out, "out", "o", client.DownloadName, "where to save the downloaded audio")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "HTTP timeout per request")
	cmd.Flags().BoolVar(&opts.download, "download", true, "download the audio after converting")
	return cmd
}

type writerAlerter struct {
	w io.Writer
}

func (a writerAlerter) Alert(message string) {
	fmt.Fprintln(a.w, "error:", message)
}

// alertedError marks a failure the controller already reported through the alerter.
type alertedError struct {
	err error
}

func (e alertedError) Error() string { return e.err.Error() }
func (e alertedError) Unwrap() error { return e.err }

// reportError prints err unless it was already shown as an alert.
func reportError(w io.Writer, err error) {
	var alerted alertedError
	if errors.As(err, &alerted) {
		return
	}
	fmt.Fprintln(w, "error:", err)
}

func runConvert(cmd *cobra.Command, path string, opts convertOptions) error {
	api, err := newAPIClient(opts.server, opts.timeout)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctrl := client.NewController(client.Deps{
		Converter:  api,
		Downloader: api,
		Saver:      client.FileSaver{Path: opts.out},
		Alerter:    writerAlerter{w: cmd.ErrOrStderr()},
		OnStatus: func(s client.Status) {
			if s != client.StatusNone {
				fmt.Fprintln(out, s)
			}
		},
	})

	ctrl.SelectFile(client.SelectedFile{Name: filepath.Base(path), Path: path})
	if err := ctrl.Convert(cmd.Context()); err != nil {
		return alertedError{err: fmt.Errorf("convert %s: %w", path, err)}
	}
	fmt.Fprintln(out, "audio:", ctrl.AudioURL())
	if !opts.download {
		return nil
	}
	if err := ctrl.Download(cmd.Context()); err != nil {
		return alertedError{err: fmt.Errorf("download: %w", err)}
	}
	fmt.Fprintln(out, "saved:", opts.out)
	return nil
}
