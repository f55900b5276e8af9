package model

import "time"

// Route is a (departure, destination) city pair with its departure-time
// labels. Routes are never hard-deleted; deactivation hides them from the
// public catalog while keeping historical bookings resolvable.
type Route struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Departure      string    `json:"departure" bson:"departure" validate:"required,min=2,max=60"`
	Destination    string    `json:"destination" bson:"destination" validate:"required,min=2,max=60"`
	AvailableTimes []string  `json:"available_times" bson:"available_times" validate:"required,min=1,dive,required"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RouteCatalog is the public read model: active routes plus the distinct
// city lists the search form offers.
type RouteCatalog struct {
	Routes            []*Route `json:"routes"`
	DepartureCities   []string `json:"departure_cities"`
	DestinationCities []string `json:"destination_cities"`
}
