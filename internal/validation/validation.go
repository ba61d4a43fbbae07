package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrCityEmpty is returned when the city is empty or whitespace-only after trim.
var ErrCityEmpty = errors.New("city is required")

// ErrCityTooLong is returned when the city length exceeds the maximum.
var ErrCityTooLong = errors.New("city too long")

// ErrCityControlChars is returned when the city contains control characters.
var ErrCityControlChars = errors.New("city contains control characters")

// ValidateCity trims the input and enforces a maximum length in runes (maxLen <= 0
// disables the check). Punctuation is allowed: the provider accepts names like
// "St. John's", postcodes and "lat,lon" pairs. Returns the trimmed string.
func ValidateCity(input string, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrCityEmpty
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return "", ErrCityTooLong
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return "", ErrCityControlChars
	}
	return s, nil
}
