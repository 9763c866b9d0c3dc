package usecase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shelflens/backend/internal/domain"
)

// Line selection thresholds
const (
	minLineLength  = 3   // shorter lines are shelf-label fragments
	minQueryLength = 5   // shortest line worth sending to the search provider
	maxDigitRatio  = 0.5 // lines that are mostly digits are codes, not names
)

// Compiled patterns for line exclusion. Matched as substrings anywhere in the
// line, mirroring how prices and codes are embedded in shelf-label text.
var (
	// Currency amounts like "$6.97", including "WAS $7.97" markdowns
	currencyAmountPattern = regexp.MustCompile(`\$\d+\.?\d*`)
	wasPricePattern       = regexp.MustCompile(`(?i)\bWAS\s+\$`)

	// Unit pricing like "PER OZ", "PER LB"
	perUnitPattern = regexp.MustCompile(`(?i)\bPER\s+(OZ|LB|EA|CT)\b`)

	// Code-like tokens: "UPC 05530", "FAC 1234", long digit runs, all-digit lines
	codeTokenPattern    = regexp.MustCompile(`(?i)\b(UPC|FAC|CAP)\s+\d+`)
	longDigitRunPattern = regexp.MustCompile(`\d{12,}`)
	allDigitsPattern    = regexp.MustCompile(`^\d+$`)
)

// boilerplateTerms is retail label vocabulary that never names a product.
// Tuned against Walmart shelf labels; other retailers' formats can extend it
// through the normalizer constructor.
var boilerplateTerms = []string{
	"ROLLBACK",
	"CLEARANCE",
	"SALE",
	"UNIT PRICE",
	"PRICE",
	"TOTAL",
	"SUBTOTAL",
	"TAX",
	"WALMART",
	"TARGET",
	"KROGER",
}

// lineRule is one named exclusion predicate. Rules are evaluated in order per
// line; any match discards the line.
type lineRule struct {
	name    string
	exclude func(line string) bool
}

// TextNormalizer turns raw multi-line OCR text into a single search-ready
// product query
type TextNormalizer struct {
	rules []lineRule
}

// NewTextNormalizer creates a normalizer with the default exclusion rules.
// extraTerms adds retailer-specific boilerplate vocabulary on top of the
// built-in set.
func NewTextNormalizer(extraTerms ...string) *TextNormalizer {
	terms := make([]string, 0, len(boilerplateTerms)+len(extraTerms))
	terms = append(terms, boilerplateTerms...)
	for _, t := range extraTerms {
		terms = append(terms, strings.ToUpper(strings.TrimSpace(t)))
	}

	rules := []lineRule{
		{"currency_amount", currencyAmountPattern.MatchString},
		{"was_price", wasPricePattern.MatchString},
		{"per_unit", perUnitPattern.MatchString},
		{"code_token", codeTokenPattern.MatchString},
		{"long_digit_run", longDigitRunPattern.MatchString},
		{"all_digits", allDigitsPattern.MatchString},
		{"boilerplate", func(line string) bool {
			upper := strings.ToUpper(line)
			for _, term := range terms {
				if term != "" && strings.Contains(upper, term) {
					return true
				}
			}
			return false
		}},
		{"too_short", func(line string) bool {
			return utf8.RuneCountInString(line) < minLineLength
		}},
		{"mostly_digits", mostlyDigits},
	}

	return &TextNormalizer{rules: rules}
}

// Normalize extracts the product description from raw OCR text. Lines are
// filtered through the exclusion rules in their original order; the first
// survivor of at least minQueryLength characters wins.
func (n *TextNormalizer) Normalize(raw string) (string, error) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if n.excluded(line) {
			continue
		}
		if utf8.RuneCountInString(line) >= minQueryLength {
			return line, nil
		}
	}

	return "", domain.ErrNoUsableText
}

// excluded reports whether any rule discards the line
func (n *TextNormalizer) excluded(line string) bool {
	for _, rule := range n.rules {
		if rule.exclude(line) {
			return true
		}
	}
	return false
}

// mostlyDigits reports whether more than half the line's characters are digits
func mostlyDigits(line string) bool {
	if line == "" {
		return false
	}
	digits, total := 0, 0
	for _, r := range line {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits)/float64(total) > maxDigitRatio
}
