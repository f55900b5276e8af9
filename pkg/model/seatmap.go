package model

import "time"

// SeatMapEntry is one seat as shown to the booking UI: inventory state merged
// with derived occupancy and the price resolved for the travel date.
type SeatMapEntry struct {
	SeatID        string     `json:"seat_id"`
	Deck          Deck       `json:"deck"`
	Row           int        `json:"row"`
	Column        string     `json:"column"`
	Status        SeatStatus `json:"status"`
	IsBlocked     bool       `json:"is_blocked"`
	BlockedReason string     `json:"blocked_reason,omitempty"`
	Price         float64    `json:"price"`
}

// SeatMap is the canonical availability read model for one slot and date.
type SeatMap struct {
	RouteID       string         `json:"route_id"`
	DepartureTime string         `json:"departure_time"`
	TravelDate    time.Time      `json:"travel_date"`
	Seats         []SeatMapEntry `json:"seats"`
	TotalSeats    int            `json:"total_seats"`
}
