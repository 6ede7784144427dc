package entities

import "time"

// ReadingProgress is the last position a user reached in a surah.
type ReadingProgress struct {
	UserID      int64
	SurahNumber int
	VerseNumber int
	Completed   bool // last page of the surah was reached
	LastReadAt  time.Time
}

// ReadingStats summarizes a user's reading activity.
type ReadingStats struct {
	SurahsOpened    int
	SurahsCompleted int
	VersesRead      int // sum of furthest verse reached per surah
	Bookmarks       int
	Streak          int // consecutive days with reading activity, ending today or yesterday
	LastRead        *ReadingProgress
}

// Percentage returns the share of all verses reached, 0..100.
func (s ReadingStats) Percentage() float64 {
	if s.VersesRead <= 0 {
		return 0
	}
	return min(float64(s.VersesRead)/TotalVerses*100, 100)
}

// CalculateStreak counts consecutive days with activity. days must hold
// distinct dates truncated to the day, newest first. The streak survives
// until the end of the day after the last activity.
func CalculateStreak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}
	today = truncateDay(today)
	first := truncateDay(days[0])
	if gap := today.Sub(first); gap > 24*time.Hour || gap < 0 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if truncateDay(days[i-1]).Sub(truncateDay(days[i])) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
