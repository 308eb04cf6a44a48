package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/convert", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/audio/:fileName", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCORS(t *testing.T) {
	cases := []struct {
		name        string
		origins     []string
		method      string
		path        string
		origin      string
		wantStatus  int
		wantAllowed bool
	}{
		{"preflight from allowed origin", []string{"http://localhost:3000"}, http.MethodOptions, "/convert", "http://localhost:3000", http.StatusNoContent, true},
		{"post from second origin", []string{"http://localhost:3000", "http://localhost:3001"}, http.MethodPost, "/convert", "http://localhost:3001", http.StatusOK, true},
		{"configured with trailing slash", []string{" http://localhost:3000/ "}, http.MethodGet, "/audio/x.mp3", "http://localhost:3000", http.StatusOK, true},
		{"unknown origin", []string{"http://localhost:3000"}, http.MethodGet, "/audio/x.mp3", "https://evil.example", http.StatusOK, false},
		{"preflight from unknown origin", []string{"http://localhost:3000"}, http.MethodOptions, "/convert", "https://evil.example", http.StatusNoContent, false},
		{"same-origin request", []string{"http://localhost:3000"}, http.MethodGet, "/audio/x.mp3", "", http.StatusOK, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			resp := httptest.NewRecorder()
			corsRouter(tc.origins...).ServeHTTP(resp, req)

			if resp.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.Code)
			}
			got := resp.Header().Get("Access-Control-Allow-Origin")
			if !tc.wantAllowed {
				if got != "" {
					t.Fatalf("expected no Allow-Origin, got %q", got)
				}
				return
			}
			if got != tc.origin {
				t.Fatalf("expected Allow-Origin %s, got %q", tc.origin, got)
			}
			if methods := resp.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "HEAD") {
				t.Fatalf("expected HEAD in Allow-Methods, got %q", methods)
			}
			if exposed := resp.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(exposed, "Content-Range") {
				t.Fatalf("expected Content-Range exposed, got %q", exposed)
			}
			if maxAge := resp.Header().Get("Access-Control-Max-Age"); maxAge != "600" {
				t.Fatalf("expected Max-Age 600, got %q", maxAge)
			}
		})
	}
}
