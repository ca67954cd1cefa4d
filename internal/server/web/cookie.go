package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "app-session"
	tokenKey   = "token"
)

// newCookieStore signs browser cookies with secret. An empty secret gets a
// random key, which invalidates cookies on every restart.
func newCookieStore(secret string, maxAge time.Duration) *sessions.CookieStore {
	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// cookie returns the browser session. A cookie that fails verification is
// replaced by a fresh, empty one.
func (s *HTTPServer) cookie(c *gin.Context) *sessions.Session {
	sess, err := s.cookies.Get(c.Request, cookieName)
	if err != nil {
		s.logger.Debug(c.Request.Context(), "discarding unreadable cookie", "error", err)
	}
	return sess
}

func (s *HTTPServer) saveCookie(c *gin.Context, sess *sessions.Session) {
	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.logger.Error(c.Request.Context(), "cookie save failed", "error", err)
	}
}

func sessionToken(sess *sessions.Session) string {
	tok, _ := sess.Values[tokenKey].(string)
	return tok
}

func (s *HTTPServer) flash(c *gin.Context, msg string) {
	sess := s.cookie(c)
	sess.AddFlash(msg)
	s.saveCookie(c, sess)
}

// takeFlashes pops pending flash messages; the caller must not have written
// the response body yet.
func (s *HTTPServer) takeFlashes(c *gin.Context) []string {
	sess := s.cookie(c)
	raw := sess.Flashes()
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	if len(raw) > 0 {
		s.saveCookie(c, sess)
	}
	return out
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
