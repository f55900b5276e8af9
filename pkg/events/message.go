package events

import "time"

// Event types published on the booking lifecycle topic.
const (
	TypeBookingInitiated      = "booking.initiated"
	TypeBookingSeatsSelected  = "booking.seats_selected"
	TypeBookingProofSubmitted = "booking.proof_submitted"
	TypeBookingVerified       = "booking.verified"
	TypeBookingDeleted        = "booking.deleted"

	HeaderEventType = "event-type"
)

// Message is a single event: Key carries the booking id so all events for
// one booking land on the same partition.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}
