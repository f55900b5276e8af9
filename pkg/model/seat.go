package model

import "time"

type Deck string

const (
	DeckUpper Deck = "Upper"
	DeckLower Deck = "Lower"
)

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatOccupied    SeatStatus = "occupied"
	SeatBlocked     SeatStatus = "blocked"
	SeatMaintenance SeatStatus = "maintenance"
)

// Seat is one physical position in the inventory of a (route, departureTime)
// slot. The stored status covers admin-controlled states; "occupied" is
// derived from paid bookings at query time and never written back here.
type Seat struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RouteID       string     `json:"route_id" bson:"route_id" validate:"required,mongodb"`
	DepartureTime string     `json:"departure_time" bson:"departure_time" validate:"required"`
	SeatID        string     `json:"seat_id" bson:"seat_id" validate:"required,seat_id"`
	Deck          Deck       `json:"deck" bson:"deck" validate:"required,oneof=Upper Lower"`
	Row           int        `json:"row" bson:"row" validate:"required,min=1"`
	Column        string     `json:"column" bson:"column" validate:"required,len=1"`
	BasePrice     float64    `json:"base_price" bson:"base_price" validate:"required,gt=0"`
	CurrentPrice  float64    `json:"current_price" bson:"current_price" validate:"required,gt=0"`
	Status        SeatStatus `json:"status" bson:"status" validate:"required,oneof=available occupied blocked maintenance"`
	IsBlocked     bool       `json:"is_blocked" bson:"is_blocked"`
	BlockedReason string     `json:"blocked_reason,omitempty" bson:"blocked_reason,omitempty"`
	BlockedUntil  *time.Time `json:"blocked_until,omitempty" bson:"blocked_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}
