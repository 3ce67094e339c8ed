// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidID is returned when a product ID is not a positive integer.
var ErrInvalidID = errors.New("invalid product ID")

// Product represents one sellable item in the catalog.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// ProductInput is the payload accepted when creating a product.
// The ID is always assigned by the store, so the payload has none.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

// Product converts the input into a Product without an ID.
func (in ProductInput) Product() Product {
	return Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
	}
}

// Violation describes one failed field constraint.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every constraint a ProductInput failed.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

// newValidator builds a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the input against the product field constraints.
// It returns a *ValidationError describing every failing field.
func (in *ProductInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate product: %w", err)
	}

	verr := &ValidationError{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Violations = append(verr.Violations, Violation{
			Field:  fe.Field(),
			Reason: reasonFor(fe.Tag()),
		})
	}

	return verr
}

// reasonFor maps a validator tag to a client-facing reason.
func reasonFor(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	case "gt":
		return "must be positive"
	case "gte":
		return "must be zero or more"
	default:
		return "failed " + tag + " constraint"
	}
}

// ParseID parses a product ID from its path representation.
// Only canonical decimal IDs are accepted: no sign, no leading zeros.
func ParseID(raw string) (int64, error) {
	if !isCanonicalID(raw) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

func isCanonicalID(raw string) bool {
	if raw == "" || raw[0] == '0' {
		return false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}
