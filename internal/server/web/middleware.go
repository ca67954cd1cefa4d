package web

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey    = "userID"
	requestIDKey = "requestID"
)

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Set(requestIDKey, reqID)
		c.Header("X-Request-ID", reqID)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// dbScope gives every request its own lazily acquired connection and
// returns it to the pool once the handler chain finishes.
func (s *HTTPServer) dbScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.db == nil {
			c.Next()
			return
		}

		scope := dbx.NewScope(s.db)
		defer func() {
			if err := scope.Close(); err != nil {
				s.logger.Warn(c.Request.Context(), "connection release failed", "error", err)
			}
		}()

		c.Request = c.Request.WithContext(dbx.WithScope(c.Request.Context(), scope))
		c.Next()
	}
}

// requireSession resolves the session token and stores the user id on the
// gin context. Anonymous requests are sent to the login page.
func (s *HTTPServer) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := s.sessions.Resolve(ctx, sessionToken(s.cookie(c)))
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthenticated) {
				s.logger.Error(ctx, "session resolve failed", "error", err)
			}
			redirect(c, "/login")
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
