package mq

import "time"

// Queue names and message definitions

// immediate queue from the booking workflow to the audit consumer
// deliver message for every booking that was created or canceled
const (
	BookingEventsImmediateQueue = "booking.events.immediate"
)

type BookingEventType string

const (
	BookingCreated  BookingEventType = "booking.created"
	BookingCanceled BookingEventType = "booking.canceled"
)

type BookingEventMessage struct {
	Type       BookingEventType `json:"type"`
	BookingID  uint             `json:"booking_id"`
	Username   string           `json:"username"`
	MovieID    uint             `json:"movie_id"`
	Showtime   string           `json:"showtime"`
	Quantity   int              `json:"quantity"`
	Total      int              `json:"total"`
	OccurredAt time.Time        `json:"occurred_at"`
}
