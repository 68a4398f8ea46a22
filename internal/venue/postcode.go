package venue

import (
	"regexp"
	"strings"
)

// UK postcode shape, with or without the separating space.
var (
	postcodeRe      = regexp.MustCompile(`(?i)\b[A-Z]{1,2}[0-9][A-Z0-9]?\s*[0-9][A-Z]{2}\b`)
	postcodeExactRe = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9][A-Z0-9]?[0-9][A-Z]{2}$`)
)

// UK bounding box used to reject coordinates that cannot be a UK venue.
const (
	MinLatitude  = 49.8
	MaxLatitude  = 60.9
	MinLongitude = -8.7
	MaxLongitude = 1.8
)

// FormatPostcode canonicalizes a raw postcode string: uppercase, single
// space before the inward code ("CW60PE" -> "CW6 0PE"). Returns "" when the
// input does not have the UK shape.
func FormatPostcode(raw string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if !postcodeExactRe.MatchString(compact) {
		return ""
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// IsPostcode reports whether s is nothing but a UK postcode.
func IsPostcode(s string) bool {
	return FormatPostcode(s) != ""
}

// OutwardCode extracts the area+district component ("GL7" from "GL7 7JW").
// Returns "" for malformed input.
func OutwardCode(postcode string) string {
	formatted := FormatPostcode(postcode)
	if formatted == "" {
		return ""
	}
	return formatted[:len(formatted)-4]
}

// InUKBounds reports whether the coordinates fall inside the UK bounding
// box.
func InUKBounds(lat, lng float64) bool {
	return lat >= MinLatitude && lat <= MaxLatitude && lng >= MinLongitude && lng <= MaxLongitude
}
