// Package receipt turns raw OCR text into structured receipt records.
package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Indonesian amounts group thousands with dots and may use a comma
	// decimal: "Rp 1.234.567", "Rp 15.000,50".
	indonesianAmountRE = regexp.MustCompile(`(?i)(?:rp|idr)[\s.:]*([0-9][0-9.,]*)`)

	// Western amounts group thousands with commas and use a dot decimal:
	// "$1,234.56".
	westernAmountRE = regexp.MustCompile(`[$€£]?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`)

	bareNumberRE = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

	// numericTokenRE matches every numeric token in a fragment, grouped
	// or bare, for callers that need all of them rather than the first.
	numericTokenRE = regexp.MustCompile(`[0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]{2})?|[0-9]+(?:\.[0-9]+)?`)
)

// ExtractPrice parses a numeric currency token out of a text fragment.
// Returns false when no numeric token is recognized; absence is never
// reported as zero.
//
// An Indonesian currency marker (Rp/IDR) anywhere in the fragment
// short-circuits format selection: dots are thousands separators and a
// comma is the decimal point. A fragment containing both "Rp" and
// grouping dots is never parsed under the Western branch.
func ExtractPrice(fragment string) (float64, bool) {
	if hasIndonesianMarker(fragment) {
		return extractIndonesian(fragment)
	}

	// The Western pattern must consume its whole numeric token: an
	// ungrouped run of 4+ digits ("1234.56") would otherwise partially
	// match as "123" and corrupt the amount. Such tokens belong to the
	// bare-number fallback instead.
	if loc := westernAmountRE.FindStringSubmatchIndex(fragment); loc != nil && !midToken(fragment, loc[3]) {
		cleaned := strings.ReplaceAll(fragment[loc[2]:loc[3]], ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return v, true
		}
	}

	if tok := bareNumberRE.FindString(fragment); tok != "" {
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return v, true
		}
	}

	return 0, false
}

// midToken reports whether position end sits inside a longer numeric
// token, i.e. the match there would be a truncated prefix.
func midToken(s string, end int) bool {
	if end < len(s) && isDigit(s[end]) {
		return true
	}
	return end+1 < len(s) && s[end] == '.' && isDigit(s[end+1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// extractAll returns every numeric token in the fragment, under the same
// locale rules as ExtractPrice. Used by the fallback-total scan, which
// must consider the largest token anywhere, not just the first per line.
func extractAll(fragment string) []float64 {
	if hasIndonesianMarker(fragment) {
		if v, ok := extractIndonesian(fragment); ok {
			return []float64{v}
		}
		return nil
	}

	var out []float64
	for _, tok := range numericTokenRE.FindAllString(fragment, -1) {
		cleaned := strings.ReplaceAll(tok, ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func hasIndonesianMarker(fragment string) bool {
	low := strings.ToLower(fragment)
	return strings.Contains(low, "rp") || strings.Contains(low, "idr")
}

func extractIndonesian(fragment string) (float64, bool) {
	tok := ""
	if m := indonesianAmountRE.FindStringSubmatch(fragment); m != nil {
		tok = m[1]
	} else if t := bareNumberRE.FindString(fragment); t != "" {
		// Marker present but not adjacent to the digits; still parse
		// under Indonesian rules.
		tok = t
	}
	if tok == "" {
		return 0, false
	}

	// Dots are always thousands separators here.
	tok = strings.ReplaceAll(tok, ".", "")

	// A single trailing comma group of 1-2 digits is the decimal part;
	// any other comma is grouping noise.
	if idx := strings.LastIndex(tok, ","); idx != -1 {
		frac := tok[idx+1:]
		if strings.Count(tok, ",") == 1 && len(frac) <= 2 {
			tok = tok[:idx] + "." + frac
		} else {
			tok = strings.ReplaceAll(tok, ",", "")
		}
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
