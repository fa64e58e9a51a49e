package validation

import "regexp"

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// MinAppealReasonLength keeps appeal reasons substantive enough for a
	// reviewer to act on.
	MinAppealReasonLength = 50
)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	specialChars := regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	return specialChars.MatchString(s)
}
