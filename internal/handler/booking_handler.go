package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/movie-booking/internal/service"
	"github.com/qs-lzh/movie-booking/internal/service/domain"
)

var showtimes = []string{"12:00", "15:00", "18:00", "21:00"}

type bookingForm struct {
	MovieID  uint   `form:"movie_id" binding:"required"`
	Showtime string `form:"showtime" binding:"required"`
	Quantity *int   `form:"quantity" binding:"required"`
}

type cancelForm struct {
	BookingID uint `form:"booking_id" binding:"required"`
}

func (h *Handler) HandleBookForm(c *gin.Context) {
	caller := callerFrom(c)
	if _, ok := caller.CurrentUser(); !ok {
		h.renderError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := idParam(c, "movie_id")
	if !ok {
		h.renderError(c, service.ErrNotFound)
		return
	}

	movie, err := h.app.BookingService.ViewBookingPage(c.Request.Context(), caller, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "book.html", gin.H{
		"movie":     movie,
		"showtimes": showtimes,
	})
}

func (h *Handler) HandleCreateBooking(c *gin.Context) {
	caller := callerFrom(c)
	// an anonymous caller is told to log in before being told the form is bad
	if _, ok := caller.CurrentUser(); !ok {
		h.renderError(c, service.ErrUnauthenticated)
		return
	}
	var form bookingForm
	if err := c.ShouldBind(&form); err != nil {
		h.badForm(c, err)
		return
	}

	_, err := h.app.BookingWorkflow.CreateBooking(c.Request.Context(), caller, domain.BookingInput{
		MovieID:  form.MovieID,
		Showtime: form.Showtime,
		Quantity: *form.Quantity,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/bookings")
}

func (h *Handler) HandleBookings(c *gin.Context) {
	bookings, err := h.app.BookingService.ListBookings(c.Request.Context(), callerFrom(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "bookings.html", gin.H{"bookings": bookings})
}

// HandleCancel always lands on /bookings, cancelling someone else's booking is silently ignored.
func (h *Handler) HandleCancel(c *gin.Context) {
	caller := callerFrom(c)
	if _, ok := caller.CurrentUser(); !ok {
		h.renderError(c, service.ErrUnauthenticated)
		return
	}
	var form cancelForm
	if err := c.ShouldBind(&form); err != nil {
		h.badForm(c, err)
		return
	}

	if _, err := h.app.BookingWorkflow.CancelBooking(c.Request.Context(), caller, form.BookingID); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/bookings")
}

func (h *Handler) HandleAdminBookings(c *gin.Context) {
	bookings, err := h.app.BookingService.ListAllBookings(c.Request.Context(), callerFrom(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_bookings.html", gin.H{"bookings": bookings})
}
