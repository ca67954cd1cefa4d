// Package web exposes the tracker over HTTP: form posts in, redirects and
// JSON pages out.
package web

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address  string
	db       *sql.DB
	users    UserService
	tasks    TaskService
	sessions SessionManager
	cookies  sessions.Store
	logger   logging.Logger
}

// NewHTTPServer wires the handlers. db may be nil, in which case requests
// run without a dedicated connection scope.
func NewHTTPServer(address string, db *sql.DB, l logging.Logger, us UserService, ts TaskService,
	sm SessionManager, secretKey string, cookieTTL time.Duration) *HTTPServer {
	return &HTTPServer{
		address:  address,
		db:       db,
		users:    us,
		tasks:    ts,
		sessions: sm,
		cookies:  newCookieStore(secretKey, cookieTTL),
		logger:   l.With("module", "http_server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.dbScope())

	r.GET("/", s.hello)
	r.GET("/signup", s.page)
	r.POST("/signup", s.signup)
	r.GET("/login", s.page)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)

	authed := r.Group("/", s.requireSession())
	authed.GET("/dashboard", s.dashboard)
	authed.POST("/add_task", s.addTask)
	authed.POST("/delete_task/:id", s.deleteTask)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
