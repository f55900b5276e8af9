package validator

import (
	"regexp"
	"time"

	"busbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	// Indian mobile numbers, digits only after normalization.
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
	// Seat identifiers like U-A1 or L-C12.
	seatIDRegex = regexp.MustCompile(`^[UL]-[A-Z][0-9]+$`)
)

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() (*BookingValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("phone_in", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	if err := v.RegisterValidation("seat_id", func(fl validator.FieldLevel) bool {
		return seatIDRegex.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	return &BookingValidator{validate: v}, nil
}

func (bv *BookingValidator) Validate(booking *model.Booking) error {
	return bv.validate.Struct(booking)
}

// ValidateContact checks the customer details captured at proof submission.
func (bv *BookingValidator) ValidateContact(contact *model.Contact) error {
	return bv.validate.Struct(contact)
}

// ValidateSeatIDs checks a bare seat-ID list outside of struct context.
func (bv *BookingValidator) ValidateSeatIDs(seatIDs []string) error {
	for _, id := range seatIDs {
		if err := bv.validate.Var(id, "required,seat_id"); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTravelDate rejects travel dates in the past. Same-day booking is
// allowed up to end of day in the server's timezone.
func (bv *BookingValidator) ValidateTravelDate(date time.Time) bool {
	today := time.Now().Truncate(24 * time.Hour)
	return !date.Before(today)
}
