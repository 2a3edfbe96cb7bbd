package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-booking/internal/mq"
)

var ErrDeliveriesClosed = errors.New("booking events delivery channel closed")

// AuditWorkflow writes one log line per booking event.
type AuditWorkflow struct {
	logger *zap.Logger
}

func NewAuditWorkflow(logger *zap.Logger) *AuditWorkflow {
	return &AuditWorkflow{logger: logger}
}

// Run consumes the booking events queue until ctx is done.
func (w *AuditWorkflow) Run(ctx context.Context, conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	msgs, err := ch.Consume(mq.BookingEventsImmediateQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", mq.BookingEventsImmediateQueue, err)
	}

	return w.consume(ctx, msgs)
}

func (w *AuditWorkflow) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveriesClosed
			}
			if err := w.handleBookingEvent(msg); err != nil {
				w.logger.Warn("dropped booking event", zap.Error(err))
			}
		}
	}
}

func (w *AuditWorkflow) handleBookingEvent(msg amqp.Delivery) error {
	var event mq.BookingEventMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		msg.Nack(false, false)
		return err
	}
	if event.Type != mq.BookingCreated && event.Type != mq.BookingCanceled {
		msg.Nack(false, false)
		return fmt.Errorf("unknown booking event type %q", event.Type)
	}

	w.logger.Info("booking event",
		zap.String("type", string(event.Type)),
		zap.Uint("booking_id", event.BookingID),
		zap.String("username", event.Username),
		zap.Uint("movie_id", event.MovieID),
		zap.String("showtime", event.Showtime),
		zap.Int("quantity", event.Quantity),
		zap.Int("total", event.Total),
		zap.Time("occurred_at", event.OccurredAt))

	msg.Ack(false)
	return nil
}
