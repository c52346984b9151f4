package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CLOCK - Wall-clock time-of-day arithmetic
// =============================================================================

// Clock is a wall-clock time-of-day, canonically "HH:MM:SS". Parsing accepts
// the short "HH:MM" form (seconds default to zero); everything the engine
// produces is zero-padded "HH:MM:SS". Clocks are local to a record's date and
// carry no timezone; overnight spans are not supported.
type Clock string

const secondsPerDay = 24 * 3600

// NowClock returns the current local time-of-day with seconds.
func NowClock() Clock {
	return Clock(time.Now().Format("15:04:05"))
}

// ClockToSeconds converts a Clock to its offset in seconds from midnight.
// Empty or malformed input yields 0, not an error: "no time yet" is a valid
// transient state mid check-in, and callers distinguish absence through the
// presence check on the Interval, never through this function's return value.
func ClockToSeconds(c Clock) int {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}
	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		vals[i] = n
	}
	return vals[0]*3600 + vals[1]*60 + vals[2]
}

// SecondsToClock converts a seconds offset back to a zero-padded "HH:MM:SS".
// The offset is assumed to lie within a single day (0 <= s < 86400); there is
// no overnight wrap.
func SecondsToClock(s int) Clock {
	return Clock(fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60))
}

// Normalize pads a short "HH:MM" clock to the canonical "HH:MM:SS" form.
// Already-canonical and empty values pass through unchanged.
func (c Clock) Normalize() Clock {
	if c == "" {
		return c
	}
	if strings.Count(string(c), ":") == 1 {
		return c + ":00"
	}
	return c
}

// Before compares two clocks. The fixed-width zero-padded encoding makes the
// lexicographic comparison correct.
func (c Clock) Before(other Clock) bool { return c < other }
