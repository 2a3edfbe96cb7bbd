package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-booking/internal/app"
	"github.com/qs-lzh/movie-booking/internal/auth"
	"github.com/qs-lzh/movie-booking/internal/service"
)

const callerKey = "caller"

type Handler struct {
	app *app.App
}

func NewHandler(app *app.App) *Handler {
	return &Handler{
		app: app,
	}
}

func callerFrom(c *gin.Context) auth.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(auth.Caller); ok {
			return caller
		}
	}
	return auth.Anonymous()
}

// render adds the navigation data every page needs.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	caller := callerFrom(c)
	user, _ := caller.CurrentUser()
	data["user"] = user
	data["is_admin"] = caller.IsAdmin()
	c.HTML(status, name, data)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "Please log in to continue."
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Admin privileges required."
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, service.ErrDuplicate):
		return http.StatusBadRequest, "Already exists."
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid username or password."
	case errors.Is(err, service.ErrValidation):
		// field messages are built by the services and safe to show
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "Something went wrong, please try again later."
	}
}

// renderError writes the error page, internal details are only logged.
func (h *Handler) renderError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.app.Logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	h.renderStatus(c, status, msg)
}

func (h *Handler) renderStatus(c *gin.Context, status int, msg string) {
	h.render(c, status, "error.html", gin.H{
		"status":  status,
		"title":   http.StatusText(status),
		"message": msg,
	})
}

func (h *Handler) badForm(c *gin.Context, err error) {
	h.app.Logger.Debug("bad form", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.renderStatus(c, http.StatusBadRequest, "The submitted form is missing fields or has invalid values.")
}

// idParam reports false for ids that cannot name a row.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
