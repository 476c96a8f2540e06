package entity

import (
	"regexp"
	"strings"
)

// MinSearchLength is the shortest name accepted by author search.
const MinSearchLength = 3

// Catalog ids are either Audible-style (B + 9), ISBN-10 style, or the 13 digit legacy form.
var asinPattern = regexp.MustCompile(`^(B[0-9A-Z]{9}|[0-9]{9}[0-9X]|[0-9]{13})$`)

// ValidateAsin reports whether s is a well formed catalog id.
func ValidateAsin(s string) bool {
	return asinPattern.MatchString(s)
}

// ValidateName reports whether s is long enough to search by.
func ValidateName(s string) bool {
	return len([]rune(strings.TrimSpace(s))) >= MinSearchLength
}

// CheckKey validates an (asin, region) lookup before any I/O is done.
func CheckKey(asin, region string) error {
	if !ValidateAsin(asin) {
		return ErrInvalidAsin
	}
	if !ValidateRegion(region) {
		return ErrInvalidRegion
	}
	return nil
}
