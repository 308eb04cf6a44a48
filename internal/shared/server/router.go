package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docspeech-backend/internal/audio"
	"docspeech-backend/internal/conversion"
	"docspeech-backend/internal/services/health"
	"docspeech-backend/internal/shared/config"
	"docspeech-backend/internal/shared/metrics"
	"docspeech-backend/internal/shared/server/middleware"
	"docspeech-backend/internal/shared/server/respond"
	"docspeech-backend/internal/web"
)

// RouterDeps are the handlers mounted by NewRouter. Pages and Health may be nil.
type RouterDeps struct {
	Config         config.Config
	ConvertHandler *conversion.Handler
	AudioHandler   *audio.Handler
	Pages          *web.Pages
	RateLimiter    *middleware.RateLimiter
	Health         *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		st := deps.Health.Status(c.Request.Context())
		if !st.OK {
			respond.JSON(c, http.StatusServiceUnavailable, st)
			return
		}
		respond.OK(c, st)
	})
	r.GET("/metrics", metrics.Handler())

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}
	convertRule := middleware.RateLimitRule{Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst}
	r.POST("/convert", middleware.RateLimit(limiter, convertRule), deps.ConvertHandler.Convert)

	r.GET("/audio/:fileName", deps.AudioHandler.Serve)
	r.HEAD("/audio/:fileName", deps.AudioHandler.Serve)

	if deps.Pages != nil {
		deps.Pages.RegisterRoutes(r)
	} else {
		r.NoRoute(web.NotFound)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
