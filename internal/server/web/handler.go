package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Messages shown to the browser after a redirect.
const (
	msgAllFieldsRequired   = "All fields are required."
	msgEmailTaken          = "Email already exists. Please use a different email."
	msgUsernameTaken       = "Username already exists. Please choose a different username."
	msgCredentialsRequired = "Email and password are required."
	msgInvalidCredentials  = "Invalid email or password."
	msgTaskAdded           = "Task Added Successfully"
	msgTaskFailed          = "An error occurred while adding the task."
	msgTaskInvalid         = "A task needs a name and a numeric due date."
	msgTryAgain            = "Something went wrong. Please try again."
)

type taskView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	Status      *string `json:"status"`
}

func toTaskViews(tasks []models.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskView{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			DueDate:     t.DueDate,
			Status:      t.Status,
		})
	}
	return out
}

func (s *HTTPServer) hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello, World")
}

func (s *HTTPServer) page(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flashes": s.takeFlashes(c)})
}

func (s *HTTPServer) signup(c *gin.Context) {
	ctx := c.Request.Context()

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	userID, err := s.users.Register(ctx, username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorMissingField):
			s.flash(c, msgAllFieldsRequired)
		case errors.Is(err, common.ErrorDuplicateEmail):
			s.flash(c, msgEmailTaken)
		case errors.Is(err, common.ErrorDuplicateUsername):
			s.flash(c, msgUsernameTaken)
		default:
			s.flash(c, msgTryAgain)
		}
		redirect(c, "/signup")
		return
	}

	if !s.startSession(c, userID) {
		s.flash(c, msgTryAgain)
		redirect(c, "/signup")
		return
	}
	redirect(c, "/dashboard")
}

func (s *HTTPServer) login(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := s.users.Authenticate(ctx, c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorMissingField):
			s.flash(c, msgCredentialsRequired)
		case errors.Is(err, common.ErrorInvalidCredentials):
			s.flash(c, msgInvalidCredentials)
		default:
			s.flash(c, msgTryAgain)
		}
		redirect(c, "/login")
		return
	}

	if !s.startSession(c, userID) {
		s.flash(c, msgTryAgain)
		redirect(c, "/login")
		return
	}
	redirect(c, "/dashboard")
}

// startSession binds a new token to userID and writes it into the cookie,
// replacing whatever session the browser held before.
func (s *HTTPServer) startSession(c *gin.Context, userID int64) bool {
	ctx := c.Request.Context()
	sess := s.cookie(c)

	token, err := s.sessions.Start(ctx, sessionToken(sess), userID)
	if err != nil {
		s.logger.Error(ctx, "session start failed", "user_id", userID, "error", err)
		return false
	}

	sess.Values[tokenKey] = token
	s.saveCookie(c, sess)
	return true
}

// endSession unbinds the browser's token and removes it from the cookie.
func (s *HTTPServer) endSession(c *gin.Context) {
	ctx := c.Request.Context()
	sess := s.cookie(c)

	if err := s.sessions.End(ctx, sessionToken(sess)); err != nil {
		s.logger.Error(ctx, "session end failed", "error", err)
	}

	delete(sess.Values, tokenKey)
	s.saveCookie(c, sess)
}

func (s *HTTPServer) logout(c *gin.Context) {
	s.endSession(c)
	redirect(c, "/login")
}

func (s *HTTPServer) dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := s.tasks.Dashboard(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthenticated) {
			// the account behind this session is gone
			s.endSession(c)
			redirect(c, "/login")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    d.User.UserName,
		"tasks":   toTaskViews(d.Tasks),
		"flashes": s.takeFlashes(c),
	})
}

func (s *HTTPServer) addTask(c *gin.Context) {
	ctx := c.Request.Context()

	_, err := s.tasks.Create(ctx, currentUserID(c),
		c.PostForm("name"),
		c.PostForm("description"),
		c.PostForm("due-date-year"),
		c.PostForm("due-date-month"),
		c.PostForm("due-date-day"),
	)
	switch {
	case err == nil:
		s.flash(c, msgTaskAdded)
	case errors.Is(err, common.ErrorInvalidField):
		s.flash(c, msgTaskInvalid)
	default:
		s.flash(c, msgTaskFailed)
	}
	redirect(c, "/dashboard")
}

func (s *HTTPServer) deleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := s.tasks.Delete(ctx, currentUserID(c), taskID); err != nil {
		s.logger.Error(ctx, "task delete failed", "task_id", taskID, "error", err)
	}
	redirect(c, "/dashboard")
}
