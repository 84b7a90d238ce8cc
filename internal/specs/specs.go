// Package specs extracts numeric and text values from free-form component
// attributes. Extraction never fails: anything unparsable yields zero.
package specs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/HerbHall/rigplanner/pkg/models"
)

var numberRe = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ParseNumber returns the first decimal number embedded in s.
// The boolean is false when s contains no number.
func ParseNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Number returns the first value among keys that parses as a number. Keys
// that are absent or hold text without a number ("N/A") are skipped; a
// parsed 0 is returned as is. When no key parses the result is 0.
func Number(c *models.Component, keys ...string) float64 {
	if c == nil {
		return 0
	}
	for _, k := range keys {
		v, ok := c.Specs.Get(k)
		if !ok {
			continue
		}
		if f, ok := toNumber(v); ok {
			return f
		}
	}
	return 0
}

// Text returns the trimmed string value of the first key present on c.
func Text(c *models.Component, keys ...string) string {
	if c == nil {
		return ""
	}
	for _, k := range keys {
		if _, ok := c.Specs.Get(k); ok {
			return strings.TrimSpace(c.Specs.String(k))
		}
	}
	return ""
}

// Has reports whether any of keys is present on c.
func Has(c *models.Component, keys ...string) bool {
	if c == nil {
		return false
	}
	for _, k := range keys {
		if _, ok := c.Specs.Get(k); ok {
			return true
		}
	}
	return false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		return ParseNumber(n)
	default:
		return ParseNumber(models.FormatValue(v))
	}
}
