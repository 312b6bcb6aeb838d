package quiz

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoNumber means no numeric value could be extracted from a reply.
var ErrNoNumber = errors.New("no number found")

var embeddedNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseNumber turns replies like "1,200", "1.2k" or "12%" into floats.
// A trailing "k" multiplies by 1000 and a trailing "%" divides by 100.
// If the cleaned string is not itself a number, the first number embedded
// in it is used, so "about 50000 units" parses as 50000.
func ParseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), ",", "")
	mult := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		mult = 0.01
	}
	if strings.HasSuffix(s, "k") {
		s = strings.TrimSuffix(s, "k")
		mult *= 1000
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v * mult, nil
	}
	m := embeddedNumber.FindString(s)
	if m == "" {
		return 0, ErrNoNumber
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, ErrNoNumber
	}
	return v * mult, nil
}
