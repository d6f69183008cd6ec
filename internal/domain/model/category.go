// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Category is the closed set of job-field labels the classifier can assign.
type Category string

// Known categories.
const (
	CategorySoftware  Category = "software"
	CategoryJava      Category = "java"
	CategoryIntern    Category = "intern"
	CategoryData      Category = "data"
	CategoryMarketing Category = "marketing"
	CategoryProduct   Category = "product"
	CategoryDesign    Category = "design"
	CategoryGeneric   Category = "generic"
)

// Categories lists every category, generic last.
var Categories = []Category{
	CategoryJava,
	CategoryIntern,
	CategoryData,
	CategoryMarketing,
	CategoryProduct,
	CategoryDesign,
	CategorySoftware,
	CategoryGeneric,
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// FieldQuery is a trimmed, non-empty job field supplied by a caller.
type FieldQuery string

// ParseFieldQuery trims raw and rejects empty input.
func ParseFieldQuery(raw string) (FieldQuery, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: field must not be empty", ErrInvalidInput)
	}
	return FieldQuery(trimmed), nil
}

// String implements fmt.Stringer.
func (q FieldQuery) String() string { return string(q) }

// Normalized returns the lower-cased form used for keyword matching.
func (q FieldQuery) Normalized() string {
	return strings.ToLower(strings.TrimSpace(string(q)))
}
