package telegram

import (
	"strconv"
	"strings"
)

// verseRef is a parsed "18" or "2:255" style reference. Verse is 0 when
// only the surah was given.
type verseRef struct {
	Surah int
	Verse int
}

// parseVerseRef parses a surah number optionally followed by ":verse".
// Range checks are left to the catalog.
func parseVerseRef(s string) (verseRef, bool) {
	s = strings.TrimSpace(s)
	surahPart, versePart, hasVerse := strings.Cut(s, ":")

	surah, err := strconv.Atoi(strings.TrimSpace(surahPart))
	if err != nil {
		return verseRef{}, false
	}
	if !hasVerse {
		return verseRef{Surah: surah}, true
	}

	verse, err := strconv.Atoi(strings.TrimSpace(versePart))
	if err != nil || verse < 1 {
		return verseRef{}, false
	}
	return verseRef{Surah: surah, Verse: verse}, true
}
