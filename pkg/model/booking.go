package model

import "time"

type PaymentStatus string

const (
	StatusPending    PaymentStatus = "Pending"
	StatusProcessing PaymentStatus = "Processing"
	StatusPaid       PaymentStatus = "Paid"
	StatusCancelled  PaymentStatus = "Cancelled"
)

// Booking is the central lifecycle entity. TrackingCode is the short public
// identifier customers use to check status; SessionToken binds seat-selection
// and proof-submission calls to the session that initiated the booking and is
// never serialized to clients after initiation.
type Booking struct {
	ID              string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TrackingCode    string        `json:"tracking_code" bson:"tracking_code" validate:"required,len=8"`
	SessionToken    string        `json:"-" bson:"session_token"`
	DepartureCity   string        `json:"departure_city" bson:"departure_city" validate:"required,min=2,max=60"`
	DestinationCity string        `json:"destination_city" bson:"destination_city" validate:"required,min=2,max=60"`
	DepartureDate   time.Time     `json:"departure_date" bson:"departure_date" validate:"required"`
	DepartureTime   string        `json:"departure_time" bson:"departure_time" validate:"required"`
	Passengers      int           `json:"passengers" bson:"passengers" validate:"required,min=1,max=10"`
	SelectedSeats   []string      `json:"selected_seats" bson:"selected_seats" validate:"omitempty,dive,seat_id"`
	TotalAmount     float64       `json:"total_amount" bson:"total_amount" validate:"min=0"`
	PaymentStatus   PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,oneof=Pending Processing Paid Cancelled"`
	CustomerName    string        `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	CustomerPhone   string        `json:"customer_phone,omitempty" bson:"customer_phone,omitempty" validate:"omitempty,phone_in"`
	CustomerEmail   string        `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email"`
	ProofURL        string        `json:"proof_url,omitempty" bson:"proof_url,omitempty"`
	ProofAssetID    string        `json:"-" bson:"proof_asset_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Contact carries the customer fields captured at proof submission.
type Contact struct {
	Name  string `json:"name" validate:"required,min=2,max=80"`
	Phone string `json:"phone" validate:"required,phone_in"`
	Email string `json:"email" validate:"required,email"`
}

// ProviderContact is the static operator info shown on the tracking page.
type ProviderContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// BookingTracking is the public projection returned for a tracking code.
// The session token and internal ids are deliberately absent.
type BookingTracking struct {
	TrackingCode    string          `json:"tracking_code"`
	Status          PaymentStatus   `json:"status"`
	TotalAmount     float64         `json:"total_amount"`
	DepartureCity   string          `json:"departure_city"`
	DestinationCity string          `json:"destination_city"`
	DepartureDate   time.Time       `json:"departure_date"`
	DepartureTime   string          `json:"departure_time"`
	Passengers      int             `json:"passengers"`
	SelectedSeats   []string        `json:"selected_seats"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	Provider        ProviderContact `json:"provider"`
}
