package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs-lzh/movie-booking/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrDuplicate, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusBadRequest},
		{fmt.Errorf("%w: quantity must be greater than 0", service.ErrValidation), http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusInternalServerError},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, msg)
		})
	}

	// internal details never reach the page
	_, msg := statusFor(errors.New("pq: connection refused"))
	assert.NotContains(t, msg, "pq")
}

func TestTimeout_SetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))

	var deadline time.Time
	var hasDeadline bool
	r.GET("/", func(c *gin.Context) {
		deadline, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	start := time.Now()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, hasDeadline)
	assert.WithinDuration(t, start.Add(50*time.Millisecond), deadline, 40*time.Millisecond)
}

func TestTimeout_ZeroDisables(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(0))

	var hasDeadline bool
	r.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, hasDeadline)
}

func TestParseTemplates(t *testing.T) {
	tmpl, err := parseTemplates()
	require.NoError(t, err)
	for _, name := range []string{
		"index.html", "register.html", "login.html", "book.html", "bookings.html",
		"admin_movies.html", "admin_movie_form.html", "admin_bookings.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}
