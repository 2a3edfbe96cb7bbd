package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-booking/internal/cache"
	"github.com/qs-lzh/movie-booking/internal/service"
)

type credentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) HandleRegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", nil)
}

func (h *Handler) HandleRegister(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"error": "Username and password are required.",
		})
		return
	}

	if _, err := h.app.UserService.Register(c.Request.Context(), form.Username, form.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicate):
			h.render(c, http.StatusBadRequest, "register.html", gin.H{
				"error":    "Username already registered.",
				"username": form.Username,
			})
		case errors.Is(err, service.ErrValidation):
			h.render(c, http.StatusBadRequest, "register.html", gin.H{
				"error":    err.Error(),
				"username": form.Username,
			})
		default:
			h.renderError(c, err)
		}
		return
	}

	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) HandleLoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"error": "Username and password are required.",
		})
		return
	}

	ctx := c.Request.Context()
	identity, err := h.app.UserService.Login(ctx, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(c, http.StatusBadRequest, "login.html", gin.H{
				"error":    "Invalid username or password.",
				"username": form.Username,
			})
			return
		}
		h.renderError(c, err)
		return
	}

	// rotate: a login never reuses the previous token
	if old := callerFrom(c).SessionID; old != "" {
		if err := h.app.Cache.DeleteSession(ctx, old); err != nil {
			h.app.Logger.Warn("failed to delete previous session", zap.Error(err))
		}
	}
	token, err := h.app.Cache.CreateSession(ctx, cache.SessionData{
		UserID:   identity.UserID,
		Username: identity.Username,
		IsAdmin:  identity.IsAdmin,
	}, h.app.Config.SessionTTL)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	h.app.Logger.Info("user logged in", zap.String("username", identity.Username), zap.Bool("is_admin", identity.IsAdmin))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) HandleLogout(c *gin.Context) {
	if token := callerFrom(c).SessionID; token != "" {
		if err := h.app.Cache.DeleteSession(c.Request.Context(), token); err != nil {
			h.renderError(c, err)
			return
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
