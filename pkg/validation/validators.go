package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// local@domain.tld with a single @ and no whitespace, Unicode spaces included
	simpleEmailRegex = regexp.MustCompile(`^[^@\s\v\p{Z}\x{FEFF}]+@[^@\s\v\p{Z}\x{FEFF}]+\.[^@\s\v\p{Z}\x{FEFF}]+$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("trimmed_min", TrimmedMin)
	_ = v.RegisterValidation("simple_email", SimpleEmail)
}

// TrimmedMin validates that a string has at least param characters once
// surrounding whitespace is removed. Length is measured in UTF-16 code units,
// the way browsers measure form input, so "😀" has length 2.
func TrimmedMin(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf16Len(strings.TrimSpace(fl.Field().String())) >= min
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// SimpleEmail validates the loose local@domain.tld shape used by the contact form.
// The relay applies the stricter "email" rule on top.
func SimpleEmail(fl validator.FieldLevel) bool {
	return simpleEmailRegex.MatchString(fl.Field().String())
}
