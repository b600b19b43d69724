package season

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MonthSet is the set of calendar months a season applies to.
type MonthSet map[time.Month]struct{}

func (s MonthSet) Contains(m time.Month) bool {
	_, ok := s[m]
	return ok
}

// Months returns the members in calendar order, for diagnostics output.
func (s MonthSet) Months() []time.Month {
	out := make([]time.Month, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InvalidMonthTokenError reports a token that is neither a month name nor an
// integer 1-12.
type InvalidMonthTokenError struct {
	Token string
}

func (e *InvalidMonthTokenError) Error() string {
	return fmt.Sprintf("invalid month token %q", e.Token)
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Word separators that people use instead of "," and "-" in season configs.
// "to"/"through" join the two ends of a range, the rest separate list items.
var delimiters = strings.NewReplacer(
	" through ", "-",
	" to ", "-",
	" and ", ",",
	"&", ",",
	"+", ",",
)

// Parse converts a human-entered month specification ("Nov-Feb", "Dec, Jan",
// "3-6") into a MonthSet. Ranges with start > end wrap around the year end,
// so "Nov-Feb" yields {Nov, Dec, Jan, Feb}.
func Parse(spec string) (MonthSet, error) {
	normalized := delimiters.Replace(strings.ToLower(strings.TrimSpace(spec)))
	normalized = strings.TrimRight(normalized, ".;:")

	set := MonthSet{}
	for _, part := range strings.Split(normalized, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if a, b, isRange := strings.Cut(part, "-"); isRange {
			start, err := parseToken(a)
			if err != nil {
				return nil, err
			}
			end, err := parseToken(b)
			if err != nil {
				return nil, err
			}
			addRange(set, start, end)
			continue
		}
		m, err := parseToken(part)
		if err != nil {
			return nil, err
		}
		set[m] = struct{}{}
	}
	return set, nil
}

func addRange(set MonthSet, start, end time.Month) {
	if start <= end {
		for m := start; m <= end; m++ {
			set[m] = struct{}{}
		}
		return
	}
	// Wrap-around range, e.g. Nov-Feb.
	for m := start; m <= time.December; m++ {
		set[m] = struct{}{}
	}
	for m := time.January; m <= end; m++ {
		set[m] = struct{}{}
	}
}

func parseToken(token string) (time.Month, error) {
	token = strings.TrimRight(strings.TrimSpace(token), ".;:")
	if token == "" {
		return 0, &InvalidMonthTokenError{Token: token}
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > 12 {
			return 0, &InvalidMonthTokenError{Token: token}
		}
		return time.Month(n), nil
	}
	if m, ok := monthNames[token]; ok {
		return m, nil
	}
	if len(token) > 3 {
		if m, ok := monthNames[token[:3]]; ok {
			return m, nil
		}
	}
	return 0, &InvalidMonthTokenError{Token: token}
}
