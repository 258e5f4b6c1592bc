package page

import (
	"strconv"
	"strings"
	"time"
)

// StyleFunc is one CSS function call from a transform or filter list.
type StyleFunc struct {
	Name string
	Args string
}

// ParseFuncs splits a space separated list of CSS functions. Nested
// parentheses stay inside the argument string.
func ParseFuncs(value string) []StyleFunc {
	var out []StyleFunc
	i := 0
	for i < len(value) {
		for i < len(value) && value[i] == ' ' {
			i++
		}
		start := i
		for i < len(value) && value[i] != '(' && value[i] != ' ' {
			i++
		}
		if i >= len(value) || value[i] != '(' {
			continue
		}
		name := value[start:i]
		depth := 0
		argStart := i + 1
		for ; i < len(value); i++ {
			if value[i] == '(' {
				depth++
			} else if value[i] == ')' {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if i >= len(value) {
			break
		}
		out = append(out, StyleFunc{Name: name, Args: strings.TrimSpace(value[argStart:i])})
		i++
	}
	return out
}

// Product multiplies the numeric argument of every call to name, returning
// 1 when there is none. Percentages are read as fractions.
func Product(value, name string) float64 {
	out := 1.0
	for _, f := range ParseFuncs(value) {
		if f.Name != name {
			continue
		}
		if v, ok := parseNumber(f.Args); ok {
			out *= v
		}
	}
	return out
}

// Sum adds the numeric argument of every call to name, ignoring units.
func Sum(value, name string) float64 {
	out := 0.0
	for _, f := range ParseFuncs(value) {
		if f.Name != name {
			continue
		}
		if v, ok := parseNumber(f.Args); ok {
			out += v
		}
	}
	return out
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " ,"); i >= 0 {
		s = s[:i]
	}
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimRight(s, "%abcdefghijklmnopqrstuvwxyz")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if pct {
		v /= 100
	}
	return v, true
}

// TransitionDuration returns the duration the transition list gives prop,
// falling back to the first listed duration.
func TransitionDuration(transition, prop string) (time.Duration, bool) {
	var first time.Duration
	found := false
	for _, part := range strings.Split(transition, ",") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		d, ok := parseDuration(fields[1])
		if !ok {
			continue
		}
		if fields[0] == prop || fields[0] == "all" {
			return d, true
		}
		if !found {
			first, found = d, true
		}
	}
	return first, found
}

func parseDuration(s string) (time.Duration, bool) {
	switch {
	case strings.HasSuffix(s, "ms"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "ms"), 64)
		return time.Duration(v * float64(time.Millisecond)), err == nil
	case strings.HasSuffix(s, "s"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		return time.Duration(v * float64(time.Second)), err == nil
	}
	return 0, false
}
