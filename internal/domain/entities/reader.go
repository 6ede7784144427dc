package entities

// ReaderState is the lifecycle of an opened surah.
type ReaderState string

const (
	ReaderIdle    ReaderState = "idle"
	ReaderLoading ReaderState = "loading"
	ReaderReady   ReaderState = "ready"
)

// ReaderSession is the reading view of one chat.
type ReaderSession struct {
	ChatID       int64
	UserID       int64
	SurahNumber  int
	State        ReaderState
	Generation   uint64 // incremented on every open, used to drop stale fetch results
	Verses       []Verse
	Fallback     bool // verses are local placeholders
	Page         int
	PlayingVerse int // 0 when no verse is selected
	MessageID    int
}

// TotalPages returns the number of pages for the given page size.
func (s *ReaderSession) TotalPages(perPage int) int {
	if perPage <= 0 || len(s.Verses) == 0 {
		return 0
	}
	return (len(s.Verses) + perPage - 1) / perPage
}

// PageVerses returns the verses shown on the current page.
func (s *ReaderSession) PageVerses(perPage int) []Verse {
	if perPage <= 0 {
		return nil
	}
	start := s.Page * perPage
	if start < 0 || start >= len(s.Verses) {
		return nil
	}
	end := min(start+perPage, len(s.Verses))
	return s.Verses[start:end]
}

// PageOf returns the page holding verse number v.
func PageOf(verse, perPage int) int {
	if verse < 1 || perPage <= 0 {
		return 0
	}
	return (verse - 1) / perPage
}

// ScrollProgress returns how far the reader has scrolled, 0..100.
// offset is the distance scrolled, total the content height and viewport
// the visible height. Content that fits the viewport counts as fully read.
func ScrollProgress(offset, total, viewport float64) float64 {
	scrollable := total - viewport
	if scrollable <= 0 {
		return 100
	}
	if offset <= 0 {
		return 0
	}
	return min(offset/scrollable*100, 100)
}

// PageProgress maps a page position onto the scroll model: the last page
// fully visible means 100%.
func PageProgress(page, totalPages int) float64 {
	if totalPages <= 1 {
		return 100
	}
	return ScrollProgress(float64(page), float64(totalPages), 1)
}
