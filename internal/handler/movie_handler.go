package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/service"
	"github.com/qs-lzh/movie-booking/internal/service/domain"
)

// numbers are pointers so a missing field is a bad form and an out of
// range value is left to the service
type movieForm struct {
	Title    string `form:"title" binding:"required"`
	Year     *int   `form:"year" binding:"required"`
	Director string `form:"director" binding:"required"`
	Rating   *int   `form:"rating" binding:"required"`
	Format   string `form:"format" binding:"required"`
	Price    *int   `form:"price" binding:"required"`
}

func (f movieForm) input() domain.MovieInput {
	return domain.MovieInput{
		Title:    f.Title,
		Year:     *f.Year,
		Director: f.Director,
		Rating:   *f.Rating,
		Format:   f.Format,
		Price:    *f.Price,
	}
}

func (h *Handler) HandleIndex(c *gin.Context) {
	movies, err := h.app.MovieService.ListMovies(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"movies": movies})
}

/*
* admin catalog
 */

func (h *Handler) HandleAdminMovies(c *gin.Context) {
	movies, err := h.app.MovieService.ListMovies(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_movies.html", gin.H{"movies": movies})
}

func (h *Handler) HandleAddMovieForm(c *gin.Context) {
	h.render(c, http.StatusOK, "admin_movie_form.html", gin.H{
		"action": "/admin/movies",
		"movie":  model.Movie{},
	})
}

func (h *Handler) HandleCreateMovie(c *gin.Context) {
	var form movieForm
	if err := c.ShouldBind(&form); err != nil {
		h.badForm(c, err)
		return
	}

	in := form.input()
	if _, err := h.app.MovieService.CreateMovie(c.Request.Context(), callerFrom(c), in); err != nil {
		h.renderMovieFormError(c, err, "/admin/movies", in)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/movies")
}

func (h *Handler) HandleEditMovieForm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		h.renderError(c, service.ErrNotFound)
		return
	}
	movie, err := h.app.MovieService.GetMovie(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_movie_form.html", gin.H{
		"action": "/admin/movies/" + c.Param("id"),
		"movie":  movie,
	})
}

func (h *Handler) HandleUpdateMovie(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		h.renderError(c, service.ErrNotFound)
		return
	}
	var form movieForm
	if err := c.ShouldBind(&form); err != nil {
		h.badForm(c, err)
		return
	}

	in := form.input()
	if _, err := h.app.MovieService.UpdateMovie(c.Request.Context(), callerFrom(c), id, in); err != nil {
		h.renderMovieFormError(c, err, "/admin/movies/"+c.Param("id"), in)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/movies")
}

func (h *Handler) HandleDeleteMovie(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		h.renderError(c, service.ErrNotFound)
		return
	}
	if err := h.app.MovieService.DeleteMovie(c.Request.Context(), callerFrom(c), id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/movies")
}

// duplicates and out of range values re-render the form with what was typed
func (h *Handler) renderMovieFormError(c *gin.Context, err error, action string, in domain.MovieInput) {
	if !errors.Is(err, service.ErrDuplicate) && !errors.Is(err, service.ErrValidation) {
		h.renderError(c, err)
		return
	}
	status, msg := statusFor(err)
	if errors.Is(err, service.ErrDuplicate) {
		msg = "A movie with this title already exists."
	}
	h.render(c, status, "admin_movie_form.html", gin.H{
		"action": action,
		"error":  msg,
		"movie": model.Movie{
			Title:    in.Title,
			Year:     in.Year,
			Director: in.Director,
			Rating:   in.Rating,
			Format:   in.Format,
			Price:    in.Price,
		},
	})
}
