package domain

import "fmt"

// Clock times are wall-clock strings in "HH:MM" form with minute resolution.
// They are compared as minutes since midnight, never as raw strings, so
// "9:30" style inputs are rejected up front.

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	return h*60 + m, nil
}

// IsClockTime reports whether s is a valid "HH:MM" clock time.
func IsClockTime(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// Overlaps reports whether two half-open intervals [s1, e1) and [s2, e2)
// intersect. Inputs are minutes since midnight. Back-to-back intervals
// where one ends exactly when the other starts do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
