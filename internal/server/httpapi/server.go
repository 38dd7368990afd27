// Package httpapi serves the browser form, the listing pages and the
// JSON API over a gin router.
package httpapi

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cvyas/quotewall/internal/logging"
	"github.com/cvyas/quotewall/internal/server/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// EntryStore is the slice of the service layer the handlers need.
type EntryStore interface {
	Upsert(ctx context.Context, name, quote, advice string) (int64, error)
	List(ctx context.Context, limit, offset int, search string) ([]models.UserEntry, int, error)
	GetByName(ctx context.Context, name string) (*models.UserEntry, error)
	DeleteByName(ctx context.Context, name string) (bool, error)
	Ping(ctx context.Context) error
}

type Server struct {
	address string
	entries EntryStore
	logger  logging.Logger
	secret  []byte
}

func NewServer(address string, entries EntryStore, logger logging.Logger, secretKey string) *Server {
	return &Server{
		address: address,
		entries: entries,
		logger:  logger.With("module", "httpapi"),
		secret:  []byte(secretKey),
	}
}

// Router assembles the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.requestLogger())

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	browser := r.Group("/", s.rateLimit(20, time.Minute), s.csrf())
	{
		browser.GET("/", s.showForm)
		browser.POST("/", s.submitForm)
		browser.POST("/delete/:name", s.deleteEntry)
	}

	// Listing pages carry delete forms, so they need the csrf token
	// issued even though they are not rate limited.
	r.GET("/output", s.csrf(), s.listEntries)
	r.GET("/output/:page", s.csrf(), s.listEntries)
	r.GET("/user/:name", s.userProfile)
	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/users", s.apiListUsers)
		api.GET("/users/:name", s.apiGetUser)
		api.DELETE("/users/:name", s.apiDeleteUser)
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.tmpl", gin.H{"Code": 404, "Message": "Page not found"})
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "starting http server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
