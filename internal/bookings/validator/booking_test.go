package validator

import (
	"testing"
	"time"

	"busbook/pkg/model"
)

func newValidator(t *testing.T) *BookingValidator {
	t.Helper()
	bv, err := NewBookingValidator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}
	return bv
}

func validBooking() *model.Booking {
	return &model.Booking{
		TrackingCode:    "A1B2C3D4",
		DepartureCity:   "Pune",
		DestinationCity: "Nagpur",
		DepartureDate:   time.Now().Add(48 * time.Hour),
		DepartureTime:   "06:30 AM",
		Passengers:      2,
		PaymentStatus:   model.StatusPending,
	}
}

func TestValidate_AcceptsMinimalBooking(t *testing.T) {
	bv := newValidator(t)
	if err := bv.Validate(validBooking()); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidate_TrackingCodeLength(t *testing.T) {
	bv := newValidator(t)

	b := validBooking()
	b.TrackingCode = "SHORT"
	if err := bv.Validate(b); err == nil {
		t.Error("expected error for 5-char tracking code")
	}
}

func TestValidate_PhoneFormat(t *testing.T) {
	bv := newValidator(t)

	tests := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"987654321", false},   // nine digits
		{"98765432100", false}, // eleven digits
		{"98765abc10", false},
		{"", true}, // omitempty on booking
	}

	for _, tt := range tests {
		b := validBooking()
		b.CustomerPhone = tt.phone
		err := bv.Validate(b)
		if tt.valid && err != nil {
			t.Errorf("phone %q: unexpected error: %v", tt.phone, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("phone %q: expected validation error", tt.phone)
		}
	}
}

func TestValidateContact_RequiresAllFields(t *testing.T) {
	bv := newValidator(t)

	contact := &model.Contact{
		Name:  "Asha Kulkarni",
		Phone: "9876543210",
		Email: "asha@example.com",
	}
	if err := bv.ValidateContact(contact); err != nil {
		t.Errorf("unexpected error for valid contact: %v", err)
	}

	missing := &model.Contact{Name: "Asha Kulkarni", Phone: "9876543210"}
	if err := bv.ValidateContact(missing); err == nil {
		t.Error("expected error for missing email")
	}

	badPhone := &model.Contact{Name: "Asha Kulkarni", Phone: "98-76-54", Email: "asha@example.com"}
	if err := bv.ValidateContact(badPhone); err == nil {
		t.Error("expected error for malformed phone")
	}
}

func TestValidateSeatIDs(t *testing.T) {
	bv := newValidator(t)

	if err := bv.ValidateSeatIDs([]string{"U-A1", "L-C12"}); err != nil {
		t.Errorf("unexpected error for valid seat IDs: %v", err)
	}

	for _, bad := range []string{"X-A1", "UA1", "u-a1", "U-1A", ""} {
		if err := bv.ValidateSeatIDs([]string{bad}); err == nil {
			t.Errorf("expected error for seat ID %q", bad)
		}
	}
}

func TestValidateTravelDate(t *testing.T) {
	bv := newValidator(t)

	if bv.ValidateTravelDate(time.Now().Add(-48 * time.Hour)) {
		t.Error("past date should be rejected")
	}
	if !bv.ValidateTravelDate(time.Now().Add(48 * time.Hour)) {
		t.Error("future date should be accepted")
	}
}
