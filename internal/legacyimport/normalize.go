package legacyimport

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizePlate denormalizes a license plate for comparison: uppercase with
// all whitespace stripped.
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DigitsOnly keeps only decimal digits, the canonical CPF form.
func DigitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseDecimal parses a legacy numeric cell using the Brazilian convention:
// when a decimal comma is present, dots are thousands separators. A currency
// prefix is tolerated. The bool reports whether the value parsed.
func ParseDecimal(value string) (float64, bool) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, false
	}
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// DecimalOrZero never fails: unparseable numeric cells become 0.
func DecimalOrZero(value string) float64 {
	parsed, _ := ParseDecimal(value)
	return parsed
}

// DecimalOrNil is the optional-field variant: unparseable cells become nil.
func DecimalOrNil(value string) *float64 {
	parsed, ok := ParseDecimal(value)
	if !ok {
		return nil
	}
	return &parsed
}

// ParseLegacyID normalizes a legacy numeric identifier to its canonical
// integer form. Non-integer cells report false; callers fall back to the
// entity's secondary key or skip the row.
func ParseLegacyID(value string) (int64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ParseActive accepts "1", "true" and "ativo" (case-insensitive) as true.
func ParseActive(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "ativo":
		return true
	default:
		return false
	}
}

var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks: "Serviço" becomes "Servico".
func StripDiacritics(value string) string {
	out, _, err := transform.String(diacriticsRemover, value)
	if err != nil {
		return value
	}
	return out
}

// NormalizeServiceType lower-cases a catalog type string and strips
// diacritics and punctuation, collapsing runs of whitespace.
func NormalizeServiceType(value string) string {
	stripped := StripDiacritics(strings.ToLower(value))
	var b strings.Builder
	lastSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// IsServiceType reports whether a catalog type string classifies the entry
// as a service ("Serviço...", "Mão de Obra...").
func IsServiceType(value string) bool {
	normalized := NormalizeServiceType(value)
	return strings.HasPrefix(normalized, "servico") || strings.HasPrefix(normalized, "mao de obra")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
