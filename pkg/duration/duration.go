package duration

import (
	"regexp"
	"strconv"
	"time"
)

// Fixed unit widths in seconds. Months and years are calendar-approximate
// on purpose; changing them would shift every stored expiry.
const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay
	secondsPerMonth  = 30 * secondsPerDay
	secondsPerYear   = 365 * secondsPerDay
)

// unitPattern matches a run of digits followed by an optional non-digit
// filler and a unit token. "mo" is listed before "m" so months win over
// minutes when both could match.
var unitPattern = regexp.MustCompile(`(\d+)\D*?(y|mo|w|d|h|m|s)`)

// Duration is a structured decomposition of a relative-time expression
// like "1w3d" or "2 hours 30 minutes". A Duration whose every component
// is zero is permanent and never converts to an expiry.
type Duration struct {
	Years   uint64
	Months  uint64
	Weeks   uint64
	Days    uint64
	Hours   uint64
	Minutes uint64
	Seconds uint64
	Raw     string
}

// Parse scans text for duration tokens and fills the matching components.
// Unmatched components stay zero; when the same unit appears more than
// once the last occurrence wins. Text with no recognizable token parses
// to a permanent duration. Parsing is pure and never fails.
func Parse(text string) Duration {
	d := Duration{Raw: text}

	for _, match := range unitPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			// Digit run too long to represent; skip the token.
			continue
		}

		switch match[2] {
		case "y":
			d.Years = value
		case "mo":
			d.Months = value
		case "w":
			d.Weeks = value
		case "d":
			d.Days = value
		case "h":
			d.Hours = value
		case "m":
			d.Minutes = value
		case "s":
			d.Seconds = value
		}
	}

	return d
}

// IsPermanent reports whether every component is zero.
func (d Duration) IsPermanent() bool {
	return d.Years == 0 && d.Months == 0 && d.Weeks == 0 && d.Days == 0 &&
		d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// TotalSeconds returns the fixed-width weighted sum of all components.
func (d Duration) TotalSeconds() uint64 {
	return d.Seconds +
		d.Minutes*secondsPerMinute +
		d.Hours*secondsPerHour +
		d.Days*secondsPerDay +
		d.Weeks*secondsPerWeek +
		d.Months*secondsPerMonth +
		d.Years*secondsPerYear
}

// ExpiryFrom converts the duration into an absolute expiry instant
// relative to now. Permanent durations have no expiry and return nil.
func (d Duration) ExpiryFrom(now time.Time) *time.Time {
	if d.IsPermanent() {
		return nil
	}

	expiry := now.Add(time.Duration(d.TotalSeconds()) * time.Second)

	return &expiry
}
