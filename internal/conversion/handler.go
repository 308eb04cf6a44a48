package conversion

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docspeech-backend/internal/shared/server/middleware"
	"docspeech-backend/internal/shared/server/respond"
	"docspeech-backend/internal/shared/util"
)

const (
	defaultMaxUploadBytes = 10 << 20 // 10MB
	successMessage        = "File successfully converted and downloaded"
)

// Handler serves POST /convert.
type Handler struct {
	Svc            *Service
	UploadDir      string
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, uploadDir string, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, UploadDir: uploadDir, MaxUploadBytes: maxUploadBytes}
}

// ConvertResponse is the success body.
type ConvertResponse struct {
	AudioURL string `json:"audioUrl"`
	Message  string `json:"message"`
}

// Convert handles a multipart upload in field "file".
func (h *Handler) Convert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "File too large", err)
			return
		}
		respond.Error(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	path, err := h.store(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	res, err := h.Svc.Convert(c.Request.Context(), Upload{
		Name:      fileHeader.Filename,
		Path:      path,
		RequestID: middleware.RequestIDFromContext(c),
	})
	if res.DocumentID != "" {
		c.Set("documentId", res.DocumentID)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFile):
			respond.Error(c, http.StatusBadRequest, "No file uploaded", err)
		case errors.Is(err, ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "Unsupported file format", err)
		case errors.Is(err, ErrExtraction), errors.Is(err, ErrEmptyText):
			respond.Error(c, http.StatusInternalServerError, "Failed to extract text from the file", err)
		default:
			respond.Error(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	respond.OK(c, ConvertResponse{AudioURL: res.AudioURL, Message: successMessage})
}

// store copies the multipart file into the upload dir under a unique, sanitized name.
func (h *Handler) store(fh *multipart.FileHeader) (string, error) {
	name, err := util.SanitizeFileName(filepath.Base(fh.Filename))
	if err != nil {
		name = "upload"
	}
	dst := filepath.Join(h.UploadDir, uuid.NewString()+"-"+name)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return dst, nil
}
