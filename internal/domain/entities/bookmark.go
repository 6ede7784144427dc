package entities

import (
	"fmt"
	"sort"
	"time"
)

// Bookmark is a saved verse position. The pair (SurahNumber, VerseNumber)
// identifies a bookmark within a user's set.
type Bookmark struct {
	SurahNumber int       `json:"surahNumber"`
	VerseNumber int       `json:"verseNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookmarkKey is the composite identity of a bookmark.
type BookmarkKey struct {
	SurahNumber int
	VerseNumber int
}

func (b Bookmark) Key() BookmarkKey {
	return BookmarkKey{SurahNumber: b.SurahNumber, VerseNumber: b.VerseNumber}
}

// Reference returns the verse reference, e.g. "2:255".
func (b Bookmark) Reference() string {
	return fmt.Sprintf("%d:%d", b.SurahNumber, b.VerseNumber)
}

// BookmarkSortOrder defines how a bookmark list is ordered.
type BookmarkSortOrder string

const (
	SortCreatedAsc  BookmarkSortOrder = "created_asc"
	SortCreatedDesc BookmarkSortOrder = "created_desc"
	SortSurahAsc    BookmarkSortOrder = "surah_asc"
	SortSurahDesc   BookmarkSortOrder = "surah_desc"
	SortVerseAsc    BookmarkSortOrder = "verse_asc"
	SortVerseDesc   BookmarkSortOrder = "verse_desc"
)

// BookmarkFilter narrows a bookmark list. Zero value keeps insertion order.
type BookmarkFilter struct {
	SurahNumber int // 0 means any surah
	SortBy      BookmarkSortOrder
}

// Apply returns a filtered and sorted copy of bookmarks.
func (f BookmarkFilter) Apply(bookmarks []Bookmark) []Bookmark {
	out := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if f.SurahNumber != 0 && b.SurahNumber != f.SurahNumber {
			continue
		}
		out = append(out, b)
	}

	var less func(a, b Bookmark) bool
	switch f.SortBy {
	case SortCreatedAsc:
		less = func(a, b Bookmark) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortCreatedDesc:
		less = func(a, b Bookmark) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortSurahAsc:
		less = func(a, b Bookmark) bool { return a.SurahNumber < b.SurahNumber }
	case SortSurahDesc:
		less = func(a, b Bookmark) bool { return a.SurahNumber > b.SurahNumber }
	case SortVerseAsc:
		less = func(a, b Bookmark) bool { return a.VerseNumber < b.VerseNumber }
	case SortVerseDesc:
		less = func(a, b Bookmark) bool { return a.VerseNumber > b.VerseNumber }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
