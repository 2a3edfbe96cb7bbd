package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/qs-lzh/movie-booking/internal/auth"
	"github.com/qs-lzh/movie-booking/internal/metrics"
	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/mq"
	"github.com/qs-lzh/movie-booking/internal/service/domain"
)

// EventPublisher is implemented by *mq.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, message any) error
}

// NoopPublisher drops every event, used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

type BookingWorkflow struct {
	bookingService domain.BookingService
	publisher      EventPublisher
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewBookingWorkflow(bookingService domain.BookingService, publisher EventPublisher, m *metrics.Metrics, logger *zap.Logger) *BookingWorkflow {
	return &BookingWorkflow{
		bookingService: bookingService,
		publisher:      publisher,
		metrics:        m,
		logger:         logger,
	}
}

func (w *BookingWorkflow) CreateBooking(ctx context.Context, caller auth.Caller, in domain.BookingInput) (*model.Booking, error) {
	booking, err := w.bookingService.CreateBooking(ctx, caller, in)
	if err != nil {
		return nil, err
	}
	w.metrics.BookingsCreated.Inc()
	w.publish(ctx, mq.BookingCreated, caller, booking)
	return booking, nil
}

// CancelBooking only emits an event when a booking was actually removed.
func (w *BookingWorkflow) CancelBooking(ctx context.Context, caller auth.Caller, bookingID uint) (*model.Booking, error) {
	booking, err := w.bookingService.CancelBooking(ctx, caller, bookingID)
	if err != nil || booking == nil {
		return booking, err
	}
	w.metrics.BookingsCanceled.Inc()
	w.publish(ctx, mq.BookingCanceled, caller, booking)
	return booking, nil
}

// the booking is already committed, a lost event is only logged
func (w *BookingWorkflow) publish(ctx context.Context, eventType mq.BookingEventType, caller auth.Caller, booking *model.Booking) {
	username, _ := caller.CurrentUser()
	msg := mq.BookingEventMessage{
		Type:       eventType,
		BookingID:  booking.ID,
		Username:   username,
		MovieID:    booking.MovieID,
		Showtime:   booking.Showtime,
		Quantity:   booking.Quantity,
		Total:      booking.Total,
		OccurredAt: time.Now().UTC(),
	}
	if err := w.publisher.Publish(ctx, mq.BookingEventsImmediateQueue, msg); err != nil {
		w.logger.Error("failed to publish booking event",
			zap.String("type", string(eventType)),
			zap.Uint("booking_id", booking.ID),
			zap.Error(err))
	}
}
