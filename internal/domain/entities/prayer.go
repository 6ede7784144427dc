package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PrayerType identifies one of the daily prayer times.
type PrayerType string

const (
	PrayerFajr    PrayerType = "Fajr"
	PrayerSunrise PrayerType = "Sunrise"
	PrayerDhuhr   PrayerType = "Dhuhr"
	PrayerAsr     PrayerType = "Asr"
	PrayerMaghrib PrayerType = "Maghrib"
	PrayerIsha    PrayerType = "Isha"
)

// PrayerOrder lists prayer types in chronological order.
var PrayerOrder = []PrayerType{
	PrayerFajr, PrayerSunrise, PrayerDhuhr, PrayerAsr, PrayerMaghrib, PrayerIsha,
}

var prayerArabicNames = map[PrayerType]string{
	PrayerFajr:    "الفجر",
	PrayerSunrise: "الشروق",
	PrayerDhuhr:   "الظهر",
	PrayerAsr:     "العصر",
	PrayerMaghrib: "المغرب",
	PrayerIsha:    "العشاء",
}

func (p PrayerType) ArabicName() string {
	return prayerArabicNames[p]
}

// Obligatory reports whether the time is one of the five prayers.
func (p PrayerType) Obligatory() bool {
	return p != PrayerSunrise
}

// Prayer is a named time of day, "HH:MM" in 24-hour format.
type Prayer struct {
	Type PrayerType `json:"name"`
	Time string     `json:"time"`
}

// Minutes returns minutes since midnight, or -1 if Time is malformed.
func (p Prayer) Minutes() int {
	m, err := ParseClock(p.Time)
	if err != nil {
		return -1
	}
	return m
}

// PrayerTimes is the schedule of a single day at a location.
type PrayerTimes struct {
	Date     time.Time         `json:"date"`
	Location Location          `json:"location"`
	Method   CalculationMethod `json:"method"`
	Prayers  []Prayer          `json:"prayers"` // chronological
	Fallback bool              `json:"fallback"`
}

// FallbackPrayerTimes returns the fixed schedule used when no live data is
// available.
func FallbackPrayerTimes(date time.Time, loc Location, method CalculationMethod) *PrayerTimes {
	return &PrayerTimes{
		Date:     date,
		Location: loc,
		Method:   method,
		Prayers: []Prayer{
			{Type: PrayerFajr, Time: "05:30"},
			{Type: PrayerSunrise, Time: "07:15"},
			{Type: PrayerDhuhr, Time: "12:45"},
			{Type: PrayerAsr, Time: "16:00"},
			{Type: PrayerMaghrib, Time: "18:30"},
			{Type: PrayerIsha, Time: "20:00"},
		},
		Fallback: true,
	}
}

// Next returns the first prayer later than now. ok is false when all of
// today's prayers have passed.
func (pt *PrayerTimes) Next(now time.Time) (Prayer, bool) {
	cur := now.Hour()*60 + now.Minute()
	for _, p := range pt.Prayers {
		if p.Minutes() > cur {
			return p, true
		}
	}
	return Prayer{}, false
}

// Current returns the last prayer whose time has been reached. Before Fajr
// it returns Fajr.
func (pt *PrayerTimes) Current(now time.Time) (Prayer, bool) {
	if len(pt.Prayers) == 0 {
		return Prayer{}, false
	}
	cur := now.Hour()*60 + now.Minute()
	for i := len(pt.Prayers) - 1; i >= 0; i-- {
		if m := pt.Prayers[i].Minutes(); m >= 0 && m <= cur {
			return pt.Prayers[i], true
		}
	}
	return pt.Prayers[0], true
}

// Passed reports whether p is at or before now.
func (pt *PrayerTimes) Passed(p Prayer, now time.Time) bool {
	return p.Minutes() <= now.Hour()*60+now.Minute()
}

// TimeUntilNext returns the duration until the next prayer. ok is false when
// the next prayer is tomorrow.
func (pt *PrayerTimes) TimeUntilNext(now time.Time) (time.Duration, bool) {
	next, ok := pt.Next(now)
	if !ok {
		return 0, false
	}
	m := next.Minutes()
	at := time.Date(now.Year(), now.Month(), now.Day(), m/60, m%60, 0, 0, now.Location())
	return at.Sub(now), true
}

// FormatRemaining renders a duration as "2h 5m", "5m" or "Now".
func FormatRemaining(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "Now"
	}
}

// ParseClock parses "HH:MM" into minutes since midnight. Trailing content
// after the minutes, such as " (EST)", is ignored.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}
