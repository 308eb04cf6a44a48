package audio

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"docspeech-backend/internal/shared/metrics"
	"docspeech-backend/internal/shared/server/respond"
)

// Handler serves GET /audio/:fileName.
type Handler struct {
	Lib *Library
}

// NewHandler constructs a Handler.
func NewHandler(lib *Library) *Handler {
	return &Handler{Lib: lib}
}

// Serve streams the named audio file.
func (h *Handler) Serve(c *gin.Context) {
	name := c.Param("fileName")
	path, err := h.Lib.Resolve(name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidName):
			respond.Error(c, http.StatusNotFound, "File not found", err)
		default:
			respond.Error(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respond.Error(c, http.StatusNotFound, "File not found", err)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.Header("Content-Type", ContentType(name))
	c.Header("Accept-Ranges", "bytes")
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)
	if st := c.Writer.Status(); st == http.StatusOK || st == http.StatusPartialContent {
		metrics.IncAudioServed()
	}
}
