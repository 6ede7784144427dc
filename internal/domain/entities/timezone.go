package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseTimezoneLocation resolves an IANA name ("Asia/Riyadh"), "UTC"/"GMT"
// or a fixed offset ("UTC+3", "+05:30", "-7") into a location.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset, ok := parseOffset(tz)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}
	return fixedZone(offset), nil
}

// ClockLocation returns the time zone used to evaluate prayer times at loc.
// Without a usable zone name it approximates the offset from the longitude.
func (l Location) ClockLocation() *time.Location {
	if l.Timezone != "" {
		if loc, err := ParseTimezoneLocation(l.Timezone); err == nil {
			return loc
		}
	}
	hours := int(math.Round(l.Longitude / 15))
	return fixedZone(hours * 3600)
}

func parseOffset(s string) (int, bool) {
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "UTC") || strings.HasPrefix(upper, "GMT") {
		s = strings.TrimSpace(s[3:])
	}
	if len(s) < 2 {
		return 0, false
	}

	var sign int
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, false
	}

	hh, mm, hasMinutes := strings.Cut(s[1:], ":")
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m := 0
	if hasMinutes {
		if m, err = strconv.Atoi(mm); err != nil || m < 0 || m > 59 {
			return 0, false
		}
	}
	return sign * (h*3600 + m*60), true
}

func fixedZone(offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	sign := '+'
	abs := offset
	if offset < 0 {
		sign, abs = '-', -offset
	}
	return time.FixedZone(fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, abs%3600/60), offset)
}
