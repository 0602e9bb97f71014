/*
leap.go - Leap-year rules

PURPOSE:
  Decides leap-ness for a year under a configurable rule, and counts
  leap years over a range in closed form so that converting dates far
  from the epoch stays O(1).

RULE KINDS:
  None:      No year is ever leap.
  Gregorian: Divisible by 4, not by 100 unless also by 400, offset by
             Start.
  Simple:    (year - Start) mod Interval == 0.
  Pattern:   Comma-separated signed intervals, e.g. "4,!100,400".
             A leading '!' negates the term. Terms evaluate left to
             right and later terms override earlier ones for the same
             year, so "4,!100,400" expresses the Gregorian rule
             generically.

HOT PATH:
  IsLeap is called on the order of millions of times per render pass.
  Pattern strings are parsed once at model validation (see validate.go)
  so IsLeap itself performs no allocation and no string work.

SEE ALSO:
  - validate.go: Pattern parsing
  - convert.go:  daysBeforeYear, which uses CountLeapYears
*/
package calendar

import (
	"strconv"
	"strings"
)

// LeapRuleKind identifies the leap rule family.
type LeapRuleKind string

const (
	LeapNone      LeapRuleKind = "none"
	LeapGregorian LeapRuleKind = "gregorian"
	LeapSimple    LeapRuleKind = "simple"
	LeapPattern   LeapRuleKind = "pattern"
)

// LeapRule is a tagged variant describing when years are leap.
// Interval is used by Simple, Pattern by Pattern, Start by all but None.
type LeapRule struct {
	Kind     LeapRuleKind
	Interval int
	Start    int
	Pattern  string
}

// leapTerm is one parsed term of a Pattern rule.
type leapTerm struct {
	interval int
	negate   bool
}

// parseLeapPattern parses "4,!100,400" into ordered terms.
func parseLeapPattern(pattern string) ([]leapTerm, error) {
	parts := strings.Split(pattern, ",")
	terms := make([]leapTerm, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		negate := strings.HasPrefix(part, "!")
		if negate {
			part = part[1:]
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, &ConfigurationError{Field: "leapRule.pattern", Reason: "term must be a positive integer, got " + strconv.Quote(part)}
		}
		terms = append(terms, leapTerm{interval: n, negate: negate})
	}
	if len(terms) == 0 {
		return nil, &ConfigurationError{Field: "leapRule.pattern", Reason: "pattern has no terms"}
	}
	return terms, nil
}

// IsLeap reports whether the internal year is leap under the model's
// rule. Allocation-free; safe to call millions of times per frame.
func (m *Model) IsLeap(year int) bool {
	switch m.LeapRule.Kind {
	case LeapNone, "":
		return false
	case LeapGregorian:
		y := year - m.LeapRule.Start
		return y%4 == 0 && (y%100 != 0 || y%400 == 0)
	case LeapSimple:
		if m.LeapRule.Interval <= 0 {
			return false
		}
		return floorMod64(int64(year-m.LeapRule.Start), int64(m.LeapRule.Interval)) == 0
	case LeapPattern:
		leap := false
		y := int64(year - m.LeapRule.Start)
		for _, term := range m.leapTerms {
			if floorMod64(y, int64(term.interval)) == 0 {
				leap = !term.negate
			}
		}
		return leap
	default:
		return false
	}
}

// CountLeapYears returns the number of leap years y with lo <= y < hi.
// Closed form for every rule kind, including Pattern, so year
// decomposition never walks year-by-year.
func (m *Model) CountLeapYears(lo, hi int) int64 {
	if hi <= lo {
		return 0
	}
	a := int64(lo - m.LeapRule.Start)
	b := int64(hi - m.LeapRule.Start)

	switch m.LeapRule.Kind {
	case LeapNone, "":
		return 0
	case LeapGregorian:
		return multiplesIn(a, b, 4) - multiplesIn(a, b, 100) + multiplesIn(a, b, 400)
	case LeapSimple:
		if m.LeapRule.Interval <= 0 {
			return 0
		}
		return multiplesIn(a, b, int64(m.LeapRule.Interval))
	case LeapPattern:
		// A year is leap iff the LAST matching term is positive. For
		// each positive term, count years it matches that no later term
		// matches, by inclusion-exclusion over the later terms' lcms.
		var total int64
		for i, term := range m.leapTerms {
			if term.negate {
				continue
			}
			later := m.leapTerms[i+1:]
			total += countExclusive(a, b, int64(term.interval), later)
		}
		return total
	default:
		return 0
	}
}

// countExclusive counts years in [a,b) divisible by n but by none of
// the later terms' intervals. Patterns are short (a handful of terms)
// so the 2^len(later) subset walk is cheap.
func countExclusive(a, b, n int64, later []leapTerm) int64 {
	var total int64
	for mask := 0; mask < 1<<len(later); mask++ {
		l := n
		bits := 0
		overflow := false
		for j, term := range later {
			if mask&(1<<j) == 0 {
				continue
			}
			bits++
			l = lcm64(l, int64(term.interval))
			if l <= 0 || l > 1<<40 {
				overflow = true
				break
			}
		}
		if overflow {
			continue // lcm beyond any representable year range matches nothing
		}
		count := multiplesIn(a, b, l)
		if bits%2 == 0 {
			total += count
		} else {
			total -= count
		}
	}
	return total
}

// multiplesIn counts multiples of k in the half-open range [a, b).
func multiplesIn(a, b, k int64) int64 {
	return floorDiv64(b-1, k) - floorDiv64(a-1, k)
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm64(a, b int64) int64 {
	return a / gcd64(a, b) * b
}

// floorDiv64 is integer division rounding toward negative infinity.
func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod64 is the non-negative remainder matching floorDiv64.
func floorMod64(a, b int64) int64 {
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		r += b
	}
	return r
}
