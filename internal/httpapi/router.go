package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"github.com/ironsheep/bgcompose-mcp/internal/compose"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

const (
	defaultMaxUploadBytes = 32 << 20
	welcomeMessage        = "Welcome to the Image Background Remover API"
)

// API serves the compositing endpoints.
type API struct {
	pipeline       *compose.Pipeline
	remover        Remover
	logger         *slog.Logger
	maxUploadBytes int64
}

// Option configures an API.
type Option func(*API)

// WithPipeline sets the pipeline used for rendering.
func WithPipeline(p *compose.Pipeline) Option {
	return func(a *API) {
		if p != nil {
			a.pipeline = p
		}
	}
}

// WithRemover sets the background remover applied to uploads.
func WithRemover(r Remover) Option {
	return func(a *API) {
		if r != nil {
			a.remover = r
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxUploadBytes limits the size of a request body. Zero or less keeps
// the default of 32 MiB.
func WithMaxUploadBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxUploadBytes = n
		}
	}
}

// New creates an API.
func New(opts ...Option) *API {
	a := &API{
		pipeline:       compose.New(),
		remover:        NewPassthrough(),
		logger:         slog.New(slog.DiscardHandler),
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router builds the gin engine serving the API.
func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLogger(), allowAnyOrigin())
	r.MaxMultipartMemory = a.maxUploadBytes

	r.GET("/", a.handleRoot)
	r.POST("/api/remove-background", a.handleCompose)
	r.POST("/api/compose", a.handleCompose)

	return r
}

func (a *API) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

// requestLogger tags each request with a ksuid and logs its outcome.
func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ksuid.New().String()
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		a.logger.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// allowAnyOrigin echoes the caller's origin so credentialed browser
// requests from any host are accepted.
func allowAnyOrigin() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{RequestIDHeader, DiagnosticsHeader, "Content-Disposition"},
	})
}
