package reciparse

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

// isoDuration is the strict PnYnMnWnDTnHnMnS grammar. Components may carry
// a decimal fraction.
var isoDuration = regexp.MustCompile(`^P(?:\d+(?:\.\d+)?Y)?(?:\d+(?:\.\d+)?M)?(?:\d+(?:\.\d+)?W)?(?:\d+(?:\.\d+)?D)?(?:T(?:\d+(?:\.\d+)?H)?(?:\d+(?:\.\d+)?M)?(?:\d+(?:\.\d+)?S)?)?$`)

// maxDurationSeconds is the longest span a time.Duration can hold.
var maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// FormatDuration renders d as an ISO 8601 duration such as "PT1H30M" or
// "P1DT2H". Zero renders as "PT0S".
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute

	iso := &duration.Duration{
		Days:    float64(days),
		Hours:   float64(h),
		Minutes: float64(m),
		Seconds: d.Seconds(),
	}
	return sign + iso.String()
}

// ParseDuration parses an ISO 8601 duration. Weeks, days, hours, minutes
// and (fractional) seconds are supported; years and months are rejected
// because they have no fixed length.
func ParseDuration(s string) (time.Duration, error) {
	orig := s
	neg := strings.HasPrefix(s, "-")
	s = strings.ReplaceAll(strings.TrimPrefix(s, "-"), ",", ".")
	if s == "P" || strings.HasSuffix(s, "T") || !isoDuration.MatchString(s) {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", orig)
	}

	iso, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q: %w", orig, err)
	}
	if iso.Years != 0 || iso.Months != 0 {
		return 0, fmt.Errorf("ISO 8601 duration %q uses calendar units", orig)
	}

	secs := iso.Weeks*7*86400 + iso.Days*86400 + iso.Hours*3600 + iso.Minutes*60 + iso.Seconds
	if secs >= maxDurationSeconds {
		return 0, fmt.Errorf("ISO 8601 duration %q out of range", orig)
	}

	iso.Negative = false
	d := iso.ToTimeDuration()
	if neg {
		d = -d
	}
	return d, nil
}
