package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-booking/internal/auth"
	"github.com/qs-lzh/movie-booking/internal/cache"
)

const sessionCookie = "session_id"

// Session resolves the session cookie into an auth.Caller. Unknown and
// expired tokens are treated as anonymous.
func (h *Handler) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := auth.Anonymous()

		token, err := c.Cookie(sessionCookie)
		if err == nil && token != "" {
			data, err := h.app.Cache.GetSession(c.Request.Context(), token)
			switch {
			case err == nil:
				caller = auth.Caller{
					SessionID: token,
					Identity: &auth.Identity{
						UserID:   data.UserID,
						Username: data.Username,
						IsAdmin:  data.IsAdmin,
					},
				}
			case errors.Is(err, cache.ErrSessionNotFound):
				h.clearSessionCookie(c)
			default:
				c.Set(callerKey, caller)
				h.renderError(c, err)
				c.Abort()
				return
			}
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireAdmin guards the admin pages, the services check again on writes.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := h.app.Gate.RequireAdmin(c.Request.Context(), callerFrom(c)); err != nil {
			h.renderError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.app.Config.SessionTTL.Seconds()), "/", "", h.app.Config.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.app.Config.CookieSecure, true)
}

// Timeout bounds the request context, services see the deadline through ctx.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

func (h *Handler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.app.Logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"))
		h.renderStatus(c, http.StatusInternalServerError, "Something went wrong, please try again later.")
		c.Abort()
	})
}
