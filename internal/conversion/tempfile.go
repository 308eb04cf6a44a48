package conversion

import (
	"errors"
	"io/fs"
	"os"

	"docspeech-backend/internal/shared/telemetry"
)

var removeFile = os.Remove

// TempFile is an uploaded file that must not outlive the request.
type TempFile struct {
	Path string
}

// Release deletes the file. Failures are logged and never surface to the caller.
func (t TempFile) Release(fields map[string]any) {
	if t.Path == "" {
		return
	}
	err := removeFile(t.Path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	logFields := map[string]any{"path": t.Path, "err": err}
	for k, v := range fields {
		logFields[k] = v
	}
	telemetry.Warn("conversion.temp_cleanup_failed", logFields)
}
