package validator

import (
	"fmt"
	"regexp"

	"busbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

// Departure times are stored as display labels like "06:30 AM".
var timeLabelRegex = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`)

type RouteValidator struct {
	validate *validator.Validate
}

func NewRouteValidator() *RouteValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &RouteValidator{validate: v}
}

func (rv *RouteValidator) Validate(route *model.Route) error {
	if err := rv.validate.Struct(route); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(route.AvailableTimes))
	for _, t := range route.AvailableTimes {
		if !timeLabelRegex.MatchString(t) {
			return fmt.Errorf("invalid departure time %q, expected format like 06:30 AM", t)
		}
		if _, ok := seen[t]; ok {
			return fmt.Errorf("duplicate departure time %q", t)
		}
		seen[t] = struct{}{}
	}

	return nil
}

// ValidateTimes covers the times-only update, which bypasses the full
// struct validation.
func (rv *RouteValidator) ValidateTimes(times []string) error {
	if len(times) == 0 {
		return fmt.Errorf("at least one departure time is required")
	}
	seen := make(map[string]struct{}, len(times))
	for _, t := range times {
		if !timeLabelRegex.MatchString(t) {
			return fmt.Errorf("invalid departure time %q, expected format like 06:30 AM", t)
		}
		if _, ok := seen[t]; ok {
			return fmt.Errorf("duplicate departure time %q", t)
		}
		seen[t] = struct{}{}
	}
	return nil
}
