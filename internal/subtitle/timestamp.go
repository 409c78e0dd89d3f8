package subtitle

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrInvalidTimestamp is returned when a string does not match the
// HH:MM:SS,mmm pattern.
var ErrInvalidTimestamp = errors.New("invalid SRT timestamp")

// Hours grow past two digits for long media.
var timestampRegex = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}),(\d{3})$`)

// FormatTimestamp renders seconds as an SRT timestamp: HH:MM:SS,mmm.
// All fields are truncated, not rounded. Negative or non-finite input is
// the caller's problem.
func FormatTimestamp(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := int(math.Mod(seconds, 60))
	millis := int(math.Mod(seconds, 1) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp converts an SRT timestamp back to seconds. A string that
// does not match HH:MM:SS,mmm fails with ErrInvalidTimestamp.
func ParseTimestamp(s string) (float64, error) {
	matches := timestampRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	secs, _ := strconv.Atoi(matches[3])
	millis, _ := strconv.Atoi(matches[4])

	return float64(hours)*3600 +
		float64(minutes)*60 +
		float64(secs) +
		float64(millis)/1000, nil
}
