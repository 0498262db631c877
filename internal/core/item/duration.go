package item

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// unitSeconds maps canonical duration units to their length in seconds.
// Months are 30 days and years 365 days; durations are estimates, not
// calendar arithmetic.
var unitSeconds = map[string]float64{
	"s":   1,
	"min": 60,
	"h":   3600,
	"d":   86400,
	"w":   604800,
	"mo":  2592000,
	"y":   31536000,
}

// unitAliases maps long-form unit spellings to canonical units.
var unitAliases = map[string]string{
	"hr":      "h",
	"minute":  "min",
	"minutes": "min",
	"hour":    "h",
	"hours":   "h",
	"day":     "d",
	"days":    "d",
	"week":    "w",
	"weeks":   "w",
	"month":   "mo",
	"months":  "mo",
	"year":    "y",
	"years":   "y",
}

// DurationPart is one (amount, unit) component of a compound duration.
type DurationPart struct {
	Amount float64
	Unit   string
}

func (p DurationPart) seconds() float64 { return p.Amount * unitSeconds[p.Unit] }

func (p DurationPart) String() string {
	return strconv.FormatFloat(p.Amount, 'f', -1, 64) + p.Unit
}

// Duration is a compound quantity such as "2mo3w" or "6mo8d3.5s".
// Part order is author-chosen and preserved on round-trip; no unit may
// appear twice.
type Duration struct {
	Parts []DurationPart
}

var durationPartPattern = regexp.MustCompile(`(\d+\.?\d*)([a-zA-Z]+)`)

// ParseDuration parses a compound duration token.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, fmt.Errorf("empty duration")
	}

	matches := durationPartPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}

	var (
		parts []DurationPart
		seen  = map[string]bool{}
		end   int
	)
	for _, m := range matches {
		if m[0] != end {
			return Duration{}, fmt.Errorf("invalid duration %q: unexpected %q", s, s[end:m[0]])
		}
		end = m[1]

		amount, err := strconv.ParseFloat(s[m[2]:m[3]], 64)
		if err != nil {
			return Duration{}, fmt.Errorf("invalid duration amount %q", s[m[2]:m[3]])
		}

		unit := s[m[4]:m[5]]
		if canonical, ok := unitAliases[unit]; ok {
			unit = canonical
		}
		if _, ok := unitSeconds[unit]; !ok {
			return Duration{}, fmt.Errorf("invalid duration unit %q", s[m[4]:m[5]])
		}
		if seen[unit] {
			return Duration{}, fmt.Errorf("duplicate duration unit %q in %q", unit, s)
		}
		seen[unit] = true

		parts = append(parts, DurationPart{Amount: amount, Unit: unit})
	}
	if end != len(s) {
		return Duration{}, fmt.Errorf("invalid duration %q: unexpected %q", s, s[end:])
	}

	return Duration{Parts: parts}, nil
}

// Seconds returns the total duration in seconds.
func (d Duration) Seconds() float64 {
	var total float64
	for _, p := range d.Parts {
		total += p.seconds()
	}
	return total
}

// IsZero reports whether the duration has no parts.
func (d Duration) IsZero() bool { return len(d.Parts) == 0 }

func (d Duration) String() string {
	if len(d.Parts) == 0 {
		return "0s"
	}
	var b strings.Builder
	for _, p := range d.Parts {
		b.WriteString(p.String())
	}
	return b.String()
}
