package errorpage

import (
	"cmp"
	"fmt"
	"slices"
)

// MaxStatus is the highest status code a rule range can cover.
const MaxStatus = 599

// Location selects the base directory a rule's file lives in.
type Location int

const (
	// Public is the <workdir>/Public directory.
	Public Location = iota
	// Resource is the <workdir>/Resources directory.
	Resource
)

func (l Location) String() string {
	if l == Resource {
		return "resource"
	}
	return "public"
}

// StatusRange is a closed interval of HTTP status codes.
type StatusRange struct {
	Low  int
	High int
}

// Contains reports whether code lies inside the range.
func (r StatusRange) Contains(code int) bool {
	return code >= r.Low && code <= r.High
}

// Span returns the number of codes in the range.
func (r StatusRange) Span() int {
	if r.High < r.Low {
		return 0
	}
	return r.High - r.Low + 1
}

func (r StatusRange) String() string {
	if r.Low == r.High {
		return fmt.Sprintf("%d", r.Low)
	}
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

func newRange(low, high int) StatusRange {
	return StatusRange{Low: clamp(low), High: clamp(high)}
}

func clamp(code int) int {
	return max(0, min(code, MaxStatus))
}

// Rule maps a range of status codes to a static file.
type Rule struct {
	Location Location
	File     string
	Range    StatusRange
}

func (r Rule) String() string {
	return fmt.Sprintf("%s:%s[%s]", r.Location, r.File, r.Range)
}

// PublicForStatus serves a public file for exactly one status code.
func PublicForStatus(file string, code int) Rule {
	return Rule{Location: Public, File: file, Range: newRange(code, code)}
}

// PublicFromStatus serves a public file for code and everything above it.
func PublicFromStatus(file string, code int) Rule {
	return Rule{Location: Public, File: file, Range: newRange(code, MaxStatus)}
}

// PublicThroughStatus serves a public file for every code up to and including code.
func PublicThroughStatus(file string, code int) Rule {
	return Rule{Location: Public, File: file, Range: newRange(0, code)}
}

// PublicBelowStatus serves a public file for every code strictly below code.
// The range is [0, code-1]; code itself is not covered, unlike an inclusive "below" that stops at code+1.
func PublicBelowStatus(file string, code int) Rule {
	return Rule{Location: Public, File: file, Range: newRange(0, code-1)}
}

// ResourceForStatus serves a resource file for exactly one status code.
func ResourceForStatus(file string, code int) Rule {
	return Rule{Location: Resource, File: file, Range: newRange(code, code)}
}

// ResourceFromStatus serves a resource file for code and everything above it.
func ResourceFromStatus(file string, code int) Rule {
	return Rule{Location: Resource, File: file, Range: newRange(code, MaxStatus)}
}

// ResourceThroughStatus serves a resource file for every code up to and including code.
func ResourceThroughStatus(file string, code int) Rule {
	return Rule{Location: Resource, File: file, Range: newRange(0, code)}
}

// ResourceBelowStatus serves a resource file for every code strictly below code.
// The range is [0, code-1]; code itself is not covered, unlike an inclusive "below" that stops at code+1.
func ResourceBelowStatus(file string, code int) Rule {
	return Rule{Location: Resource, File: file, Range: newRange(0, code-1)}
}

// Rules is an ordered, read-only set of rules.
// The first rule whose range contains a status wins.
type Rules struct {
	list []Rule
}

// NewRules orders rules by descending upper bound.
// Ties go to the narrower range, then location, then file name,
// so the result does not depend on the order rules were given in.
func NewRules(rules ...Rule) Rules {
	list := slices.Clone(rules)
	slices.SortStableFunc(list, func(a, b Rule) int {
		if c := cmp.Compare(b.Range.High, a.Range.High); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Range.Low, a.Range.Low); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Location, b.Location); c != 0 {
			return c
		}
		return cmp.Compare(a.File, b.File)
	})
	return Rules{list: list}
}

// Match returns the first rule covering status.
func (rs Rules) Match(status int) (Rule, bool) {
	for _, r := range rs.list {
		if r.Range.Contains(status) {
			return r, true
		}
	}
	return Rule{}, false
}

// All returns the rules in match order.
func (rs Rules) All() []Rule {
	return slices.Clone(rs.list)
}

// Len returns the number of rules.
func (rs Rules) Len() int {
	return len(rs.list)
}
