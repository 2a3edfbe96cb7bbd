package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/movie-booking/internal/app"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.html")
}

func NewRouter(app *app.App) (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	h := NewHandler(app)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		RequestLogger(app.Logger),
		app.Metrics.Middleware(),
		h.Recovery(),
		Timeout(app.Config.RequestTimeout),
	)
	r.NoRoute(func(c *gin.Context) {
		h.renderStatus(c, http.StatusNotFound, "Page not found.")
	})

	r.GET("/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	pages := r.Group("/", h.Session())
	{
		pages.GET("/", h.HandleIndex)

		pages.GET("/register", h.HandleRegisterForm)
		pages.POST("/register", h.HandleRegister)
		pages.GET("/login", h.HandleLoginForm)
		pages.POST("/login", h.HandleLogin)
		pages.GET("/logout", h.HandleLogout)

		pages.GET("/book/:movie_id", h.HandleBookForm)
		pages.POST("/book", h.HandleCreateBooking)
		pages.GET("/bookings", h.HandleBookings)
		pages.POST("/cancel", h.HandleCancel)
	}

	admin := pages.Group("/admin", h.RequireAdmin())
	{
		admin.GET("/movies", h.HandleAdminMovies)
		admin.GET("/movies/add", h.HandleAddMovieForm)
		admin.POST("/movies", h.HandleCreateMovie)
		admin.GET("/movies/:id/edit", h.HandleEditMovieForm)
		admin.POST("/movies/:id", h.HandleUpdateMovie)
		admin.POST("/movies/:id/delete", h.HandleDeleteMovie)
		admin.GET("/bookings", h.HandleAdminBookings)
	}

	return r, nil
}
