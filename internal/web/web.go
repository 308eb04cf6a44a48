package web

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"

	"docspeech-backend/internal/shared/server/respond"
)

//go:embed pages/*.html
var pages embed.FS

// Pages serves the browser front end.
type Pages struct {
	index     []byte
	converter []byte
}

// NewPages loads the embedded pages.
func NewPages() (*Pages, error) {
	index, err := pages.ReadFile("pages/index.html")
	if err != nil {
		return nil, err
	}
	converter, err := pages.ReadFile("pages/text-to-speech.html")
	if err != nil {
		return nil, err
	}
	return &Pages{index: index, converter: converter}, nil
}

// RegisterRoutes attaches the page routes and the fallback for unmatched paths.
func (p *Pages) RegisterRoutes(r *gin.Engine) {
	r.GET("/", p.html(p.index))
	r.GET("/text-to-speech", p.html(p.converter))
	r.NoRoute(NotFound)
}

func (p *Pages) html(body []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}

// NotFound redirects unmatched GETs to the landing page; other methods get a JSON 404.
func NotFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		c.Redirect(http.StatusFound, "/")
		return
	}
	respond.Error(c, http.StatusNotFound, "Not found", nil)
}
