// Package query turns a brief into a normalized search string and market codes.
package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/scoutline/leadscout/internal/model"
)

// marketCodes maps human market names to two-letter codes. Unknown markets
// fall back to the first two uppercased characters of the input; the
// fallback is deliberately lossy, not an error.
var marketCodes = map[string]string{
	"south africa":   "ZA",
	"nigeria":        "NG",
	"ghana":          "GH",
	"kenya":          "KE",
	"tanzania":       "TZ",
	"uganda":         "UG",
	"zimbabwe":       "ZW",
	"botswana":       "BW",
	"namibia":        "NA",
	"mozambique":     "MZ",
	"zambia":         "ZM",
	"united kingdom": "GB",
	"uk":             "GB",
	"united states":  "US",
	"usa":            "US",
	"germany":        "DE",
	"france":         "FR",
	"netherlands":    "NL",
	"portugal":       "PT",
	"brazil":         "BR",
	"australia":      "AU",
	"canada":         "CA",
	"india":          "IN",
	"japan":          "JP",
	"uae":            "AE",
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and strips diacritics from a market or name
// string so lookups are stable across input spellings.
func Normalize(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// MarketCode normalizes a human market name to a short code.
func MarketCode(market string) string {
	n := Normalize(market)
	if code, ok := marketCodes[n]; ok {
		return code
	}
	runes := []rune(strings.ToUpper(n))
	if len(runes) >= 2 {
		return string(runes[:2])
	}
	return string(runes)
}

// Build constructs the search query string and normalized market codes from
// a brief. Pure function: always returns a non-empty query because the
// "email contact" augmentation is always appended.
func Build(brief model.Brief) (string, []string) {
	codes := make([]string, 0, len(brief.Markets))
	for _, m := range brief.Markets {
		if code := MarketCode(m); code != "" {
			codes = append(codes, code)
		}
	}

	parts := []string{
		brief.Genre,
		strings.Join(brief.ContactTypes, " "),
		brief.SpecificLocation,
		strings.Join(brief.Markets, " "),
		"email contact",
	}
	built := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")

	freeform := strings.TrimSpace(brief.FreeformQuery)
	if freeform != "" && !strings.Contains(strings.ToLower(built), strings.ToLower(freeform)) {
		built = freeform + " " + built
	}

	return built, codes
}
