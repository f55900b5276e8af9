package model

import "time"

// RoutePrice is a time-bounded blanket override of per-seat pricing for one
// (route, departureTime) slot. While an active override's window contains the
// travel date, it replaces the stored per-seat price for every seat in the
// slot: deck base price times the surge multiplier.
type RoutePrice struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RouteID         string    `json:"route_id" bson:"route_id" validate:"required,mongodb"`
	DepartureTime   string    `json:"departure_time" bson:"departure_time" validate:"required"`
	BasePriceUpper  float64   `json:"base_price_upper" bson:"base_price_upper" validate:"required,gt=0"`
	BasePriceLower  float64   `json:"base_price_lower" bson:"base_price_lower" validate:"required,gt=0"`
	SurgeMultiplier float64   `json:"surge_multiplier" bson:"surge_multiplier" validate:"required,gt=0"`
	EffectiveDate   time.Time `json:"effective_date" bson:"effective_date" validate:"required"`
	ExpiryDate      time.Time `json:"expiry_date" bson:"expiry_date" validate:"required,gtfield=EffectiveDate"`
	IsActive        bool      `json:"is_active" bson:"is_active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BasePriceFor returns the deck-tier base price of this override.
func (rp *RoutePrice) BasePriceFor(deck Deck) float64 {
	if deck == DeckLower {
		return rp.BasePriceLower
	}
	return rp.BasePriceUpper
}

// Covers reports whether the override's validity window contains the date.
func (rp *RoutePrice) Covers(date time.Time) bool {
	return !date.Before(rp.EffectiveDate) && !date.After(rp.ExpiryDate)
}
