package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errEmptyValue = errors.New("value is empty")

var (
	// Commas only group thousands: "1,234" or "1,234.56".
	pointGrouped = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	// Dots only group thousands: "1.234,56". Without dots any "10,5" is fine.
	commaGrouped = regexp.MustCompile(`^(\d{1,3}(\.\d{3})+|\d+)(,\d+)?$`)
)

// ParseDate parses a required date cell with layout.
func ParseDate(value, layout string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyValue
	}
	if layout == "" {
		layout = CanonicalDateLayout
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected layout %s", value, layout)
	}
	return t, nil
}

// ParseOptionalDate returns nil for an empty cell.
func ParseOptionalDate(value, layout string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(value, layout)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DecimalStyle selects how separators in amount cells are read.
type DecimalStyle int

const (
	// DecimalPoint reads "1,234.56": commas group thousands. A comma in any
	// other position, as in "10,5", makes the amount invalid.
	DecimalPoint DecimalStyle = iota
	// DecimalComma reads "1.234,56" and "10,5". Values without a comma are
	// read as DecimalPoint so raw spreadsheet numbers still parse; a dot after
	// the comma, as in "1,234.56", makes the amount invalid.
	DecimalComma
)

// ParseDecimal parses a required amount cell. Currency prefixes, spaces and
// accounting parentheses for negatives are accepted.
func ParseDecimal(value string, style DecimalStyle) (decimal.Decimal, error) {
	clean := normalizeAmount(value, style)
	if clean == "" {
		return decimal.Zero, errEmptyValue
	}
	if clean == invalidAmount {
		return decimal.Zero, fmt.Errorf("invalid amount %q", strings.TrimSpace(value))
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", strings.TrimSpace(value))
	}
	return d, nil
}

// ParseOptionalDecimal returns an invalid NullDecimal for an empty cell.
func ParseOptionalDecimal(value string, style DecimalStyle) (decimal.NullDecimal, error) {
	if normalizeAmount(value, style) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := ParseDecimal(value, style)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// invalidAmount is returned by normalizeAmount for separators in the wrong
// places. decimal.NewFromString never accepts it.
const invalidAmount = "?"

func normalizeAmount(value string, style DecimalStyle) string {
	s := strings.TrimSpace(value)
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")

	switch style {
	case DecimalComma:
		if strings.Contains(s, ",") {
			if !commaGrouped.MatchString(s) {
				return invalidAmount
			}
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	default:
		if strings.Contains(s, ",") {
			if !pointGrouped.MatchString(s) {
				return invalidAmount
			}
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	if s == "" {
		return ""
	}
	if negative {
		return "-" + s
	}
	return s
}
