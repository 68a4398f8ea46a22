// Package venue canonicalizes inconsistent venue name/postcode strings from
// dozens of sources into one identity per physical location. The pipeline is
// normalise -> resolve alias -> disambiguate, three pure string transforms
// that are unit-testable in isolation and safe under concurrent producer
// calls.
package venue

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Placeholder marks unusable input. Surfacing "Tbc" instead of a blank
	// signals a data-quality gap without failing anything downstream.
	Placeholder = "Tbc"

	// OnlineVenue is the fixed identity of virtual events; its distance is
	// pinned to zero.
	OnlineVenue = "Online"

	maxNameLen = 100
)

var (
	onlineRe         = regexp.MustCompile(`(?i)\b(online|virtual)\b`)
	numberedSuffixRe = regexp.MustCompile(`\s*\(\d+\)(\s*-\s*.*)?$`)

	// A trailing parenthetical is descriptive, not geographic, when it
	// carries a show-qualifier word.
	showQualifierParenRe = regexp.MustCompile(`(?i)\s*\([^()]*\b(premier|festival|championship|finals?|qualifiers?|senior|junior|pony|winter|summer|league)\b[^()]*\)$`)

	// Short disambiguation code in a trailing parenthetical, e.g. "(Gl7)",
	// lower-cased by title-casing and restored afterwards.
	trailingCodeRe = regexp.MustCompile(`\(([A-Za-z]{1,2}[0-9][A-Za-z0-9]{0,2})\)$`)

	embeddedPostcodeRe = regexp.MustCompile(`(?i)\s*\(?\b[A-Z]{1,2}[0-9][A-Z0-9]?\s*[0-9][A-Z]{2}\b\)?`)
	trailingLimitedRe  = regexp.MustCompile(`(?i)\s+limited$`)

	// " - XXXX" tails are stripped only when short, so real place names
	// after a dash survive.
	trailingAbbrevRe = regexp.MustCompile(`\s+-\s+\S{1,4}$`)

	whitespaceRe         = regexp.MustCompile(`\s+`)
	trailingPunctRe      = regexp.MustCompile(`[\s,\-.;:&]+$`)
	trailingConnectiveRe = regexp.MustCompile(`(?i)\s+(of|at|the|and)$`)
	plusCodeRe           = regexp.MustCompile(`(?i)^[A-Z0-9]{4,8}\+[A-Z0-9]{2,}`)
	urlRe                = regexp.MustCompile(`(?i)^(https?://|www\.)\S+$`)
)

// venueSuffixes are generic venue-type tails stripped from the end until no
// suffix matches, which handles compounded forms like
// "X Equestrian Centre Ltd".
var venueSuffixes = []string{
	"equestrian centre",
	"equestrian center",
	"equestrian club",
	"equestrian",
	"riding club",
	"riding centre",
	"riding school",
	"livery yard",
	"competition centre",
	"saddle club",
	"polo club",
	"ec",
	"rc",
	"ltd",
}

// Normalise canonicalizes a raw venue-name string into a stable display
// form. It never returns empty: unusable input becomes "Tbc". The passes run
// in a fixed order and the whole function is idempotent:
// Normalise(Normalise(x)) == Normalise(x).
func Normalise(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Placeholder
	}
	if onlineRe.MatchString(name) {
		return OnlineVenue
	}

	name = numberedSuffixRe.ReplaceAllString(name, "")
	name = showQualifierParenRe.ReplaceAllString(name, "")
	name = titleCase(name)
	name = restoreTrailingCode(name)
	name = embeddedPostcodeRe.ReplaceAllString(name, " ")
	name = trailingLimitedRe.ReplaceAllString(name, "")
	name = trailingAbbrevRe.ReplaceAllString(name, "")
	name = stripVenueSuffixes(name)
	name = tidy(name)

	if rejected(name) {
		return Placeholder
	}

	// Truncation can expose a venue-type suffix at the end of the first
	// segment; re-running the suffix pass keeps Normalise idempotent.
	if truncated := truncateAddress(name); truncated != name {
		name = tidy(stripVenueSuffixes(truncated))
	}
	if len(name) < 2 || len(name) > maxNameLen {
		return Placeholder
	}
	return name
}

func titleCase(s string) string {
	// cases.Caser is stateful, so a fresh one per call keeps Normalise
	// safe for concurrent producers.
	return cases.Title(language.English).String(s)
}

func restoreTrailingCode(s string) string {
	return trailingCodeRe.ReplaceAllStringFunc(s, strings.ToUpper)
}

func stripVenueSuffixes(name string) string {
	// Trim first: the cut below is indexed on name itself, and earlier
	// passes can leave leading whitespace behind.
	name = strings.TrimSpace(name)
	for {
		stripped := false
		lower := strings.ToLower(name)
		for _, suffix := range venueSuffixes {
			if lower == suffix {
				return ""
			}
			if strings.HasSuffix(lower, " "+suffix) {
				name = strings.TrimSpace(name[:len(name)-len(suffix)])
				name = trailingPunctRe.ReplaceAllString(name, "")
				stripped = true
				break
			}
		}
		if !stripped {
			return name
		}
	}
}

// tidy collapses runs of whitespace and peels trailing punctuation and
// connective words left behind by earlier passes.
func tidy(name string) string {
	name = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))
	for {
		next := trailingPunctRe.ReplaceAllString(name, "")
		next = trailingConnectiveRe.ReplaceAllString(next, "")
		if next == name {
			return name
		}
		name = next
	}
}

// rejected guards against results that are not names at all.
func rejected(name string) bool {
	return IsPostcode(name) ||
		plusCodeRe.MatchString(name) ||
		urlRe.MatchString(name) ||
		len(name) > maxNameLen
}

// truncateAddress keeps only the first comma-separated segment of an address
// masquerading as a venue name. A single short trailing qualifier
// ("Higher Farm, Cheshire") is preserved.
func truncateAddress(name string) string {
	segments := strings.Split(name, ",")
	if len(segments) < 2 {
		return name
	}
	first := strings.TrimSpace(segments[0])
	commas := len(segments) - 1
	if commas >= 2 || (len(first) >= 4 && len(name) > 50) {
		return first
	}
	return name
}
