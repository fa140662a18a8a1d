package application

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/calderonweb/espacio-api/listings/domain"
)

// contactPattern accepts an optional leading + followed by 7-20 characters of
// digits, spaces, hyphens and parentheses. Matched against the full value.
var contactPattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{7,20}$`)

// maxTextLength caps title, location and contact per the departments schema
const maxTextLength = 100

const (
	msgInvalidContact   = "contact must be a valid phone number (7-20 characters)"
	msgTooLong          = "must be at most 100 characters"
	msgPositiveNumber   = "must be a positive number"
	msgPositiveInteger  = "must be a positive integer"
	msgUnsupportedImage = "only PNG, JPG, JPEG and GIF images are allowed"
)

// fieldErrors maps a form field name to a human-readable problem. All fields
// are validated independently and every failure is collected; nothing
// short-circuits.
type fieldErrors map[string]string

// validateListing coerces every present field of the form onto dst, collecting
// a message per failed field. In create mode, absent required fields fail too;
// in update mode absent fields are simply left alone.
// dst is only mutated for fields that validated successfully, and callers must
// not persist anything when errors come back.
func validateListing(form ListingForm, dst *domain.Listing, create bool) fieldErrors {
	errs := fieldErrors{}

	text := func(name string, f Field, apply func(string)) {
		if !f.Present {
			if create {
				errs[name] = name + " is required"
			}
			return
		}
		v := strings.TrimSpace(f.Value)
		if v == "" {
			if create {
				errs[name] = name + " is required"
			} else {
				errs[name] = name + " cannot be empty"
			}
			return
		}
		apply(v)
	}

	text("title", form.Title, func(v string) {
		if len(v) > maxTextLength {
			errs["title"] = "title " + msgTooLong
			return
		}
		dst.Title = v
	})

	text("location", form.Location, func(v string) {
		if len(v) > maxTextLength {
			errs["location"] = "location " + msgTooLong
			return
		}
		dst.Location = v
	})

	text("contact", form.Contact, func(v string) {
		if !contactPattern.MatchString(v) {
			errs["contact"] = msgInvalidContact
			return
		}
		dst.Contact = v
	})

	text("description", form.Description, func(v string) {
		dst.Description = v
	})

	if form.Price.Present || create {
		price, err := strconv.ParseFloat(strings.TrimSpace(form.Price.Value), 64)
		if !form.Price.Present || err != nil || price <= 0 {
			errs["price"] = "price " + msgPositiveNumber
		} else {
			dst.Price = price
		}
	}

	if form.Bedrooms.Present || create {
		bedrooms, err := strconv.Atoi(strings.TrimSpace(form.Bedrooms.Value))
		if !form.Bedrooms.Present || err != nil || bedrooms <= 0 {
			errs["bedrooms"] = "bedrooms " + msgPositiveInteger
		} else {
			dst.Bedrooms = bedrooms
		}
	}

	if form.Bathrooms.Present || create {
		bathrooms, err := strconv.ParseFloat(strings.TrimSpace(form.Bathrooms.Value), 64)
		if !form.Bathrooms.Present || err != nil || bathrooms <= 0 {
			errs["bathrooms"] = "bathrooms " + msgPositiveNumber
		} else {
			dst.Bathrooms = bathrooms
		}
	}

	return errs
}
