package utils

import (
	"fmt"
	"unicode/utf8"

	"RealEstateAPI/models"
)

// ValidationError reports the first field rule a property payload
// violates. Handlers surface it as a client error, never a server fault.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var validListingTypes = map[string]bool{
	models.ListingSale: true,
	models.ListingRent: true,
}

var validStatuses = map[string]bool{
	models.StatusActive:   true,
	models.StatusInactive: true,
	models.StatusSold:     true,
	models.StatusRented:   true,
}

// ValidateProperty checks the shared field rules, then the rules specific
// to the payload's category. An empty status defaults to active. The
// first unmet rule is returned; nothing else is inspected after that.
func ValidateProperty(in *models.PropertyInput) error {
	return validateProperty(in, true)
}

// ValidatePropertyUpdate checks a payload merged over a stored row.
// local_size is not persisted, so a commercial update that does not
// resend it still passes.
func ValidatePropertyUpdate(in *models.PropertyInput) error {
	return validateProperty(in, false)
}

func validateProperty(in *models.PropertyInput, requireLocalSize bool) error {
	switch in.Type {
	case models.TypeIndustrial, models.TypeCommercial, models.TypeResidential:
	default:
		return invalid("type", "must be industrial, commercial or residential")
	}

	if !validListingTypes[in.ListingType] {
		return invalid("listing_type", "must be sale or rent")
	}
	if utf8.RuneCountInString(in.Name) < 3 {
		return invalid("name", "must be at least 3 characters")
	}
	if utf8.RuneCountInString(in.Location) < 5 {
		return invalid("location", "must be at least 5 characters")
	}
	if utf8.RuneCountInString(in.PropertyType) < 3 {
		return invalid("property_type", "must be at least 3 characters")
	}
	if in.Price <= 0 {
		return invalid("price", "must be greater than 0")
	}
	if in.Surface <= 0 {
		return invalid("surface", "must be greater than 0")
	}
	if utf8.RuneCountInString(in.Description) < 10 {
		return invalid("description", "must be at least 10 characters")
	}

	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if !validStatuses[in.Status] {
		return invalid("status", "must be active, inactive, sold or rented")
	}

	switch in.Type {
	case models.TypeIndustrial:
		if in.Construction == nil || *in.Construction <= 0 {
			return invalid("construction", "must be greater than 0")
		}
		if in.TechnicalSheet == nil || *in.TechnicalSheet == "" {
			return invalid("technical_sheet", "is required for industrial properties")
		}
	case models.TypeCommercial:
		if requireLocalSize && in.LocalSize == "" {
			return invalid("local_size", "is required for commercial properties")
		}
		if in.Construction != nil && *in.Construction <= 0 {
			return invalid("construction", "must be greater than 0")
		}
	case models.TypeResidential:
		if in.Construction == nil || *in.Construction <= 0 {
			return invalid("construction", "must be greater than 0")
		}
	}

	return nil
}
