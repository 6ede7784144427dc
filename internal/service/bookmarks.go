package service

import (
	"context"
	"time"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/preferences"
)

// ResolvedBookmark is a bookmark with its surah looked up in the catalog.
type ResolvedBookmark struct {
	entities.Bookmark
	Surah *entities.Surah
}

// BookmarkService manages the per-user bookmark set. The set is stored as
// an ordered list under the bookmarks preference key.
type BookmarkService struct {
	store  *preferences.Store
	surahs SurahRepository
	locks  userLocks
	now    func() time.Time
}

func NewBookmarkService(store *preferences.Store, surahs SurahRepository) *BookmarkService {
	return &BookmarkService{
		store:  store,
		surahs: surahs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Toggle adds the bookmark if absent, otherwise removes it. It reports
// whether the bookmark was added.
func (s *BookmarkService) Toggle(ctx context.Context, userID int64, surahNumber, verseNumber int) (bool, error) {
	var added bool
	err := s.modify(ctx, userID, func(list []entities.Bookmark) []entities.Bookmark {
		key := entities.BookmarkKey{SurahNumber: surahNumber, VerseNumber: verseNumber}
		if i := indexOf(list, key); i >= 0 {
			return append(list[:i], list[i+1:]...)
		}
		added = true
		return append(list, s.newBookmark(surahNumber, verseNumber))
	})
	return added, err
}

// Add inserts a bookmark. Adding an existing bookmark changes nothing.
func (s *BookmarkService) Add(ctx context.Context, userID int64, surahNumber, verseNumber int) error {
	return s.modify(ctx, userID, func(list []entities.Bookmark) []entities.Bookmark {
		key := entities.BookmarkKey{SurahNumber: surahNumber, VerseNumber: verseNumber}
		if indexOf(list, key) >= 0 {
			return nil
		}
		return append(list, s.newBookmark(surahNumber, verseNumber))
	})
}

// Remove deletes a bookmark if present.
func (s *BookmarkService) Remove(ctx context.Context, userID int64, surahNumber, verseNumber int) error {
	return s.RemoveMany(ctx, userID, []entities.BookmarkKey{{SurahNumber: surahNumber, VerseNumber: verseNumber}})
}

// RemoveMany deletes all listed bookmarks that are present.
func (s *BookmarkService) RemoveMany(ctx context.Context, userID int64, keys []entities.BookmarkKey) error {
	drop := make(map[entities.BookmarkKey]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	return s.modify(ctx, userID, func(list []entities.Bookmark) []entities.Bookmark {
		kept := make([]entities.Bookmark, 0, len(list))
		for _, b := range list {
			if _, ok := drop[b.Key()]; !ok {
				kept = append(kept, b)
			}
		}
		if len(kept) == len(list) {
			return nil
		}
		return kept
	})
}

// Clear removes every bookmark of the user.
func (s *BookmarkService) Clear(ctx context.Context, userID int64) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	return preferences.Set(ctx, s.store, userID, preferences.KeyBookmarks, []entities.Bookmark{})
}

// List returns the user's bookmarks filtered and sorted by filter.
func (s *BookmarkService) List(ctx context.Context, userID int64, filter entities.BookmarkFilter) ([]entities.Bookmark, error) {
	list, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(list), nil
}

// ListResolved is List with surahs attached. Bookmarks pointing at a surah
// missing from the catalog are skipped.
func (s *BookmarkService) ListResolved(ctx context.Context, userID int64, filter entities.BookmarkFilter) ([]ResolvedBookmark, error) {
	list, err := s.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedBookmark, 0, len(list))
	for _, b := range list {
		surah, err := s.surahs.GetByNumber(b.SurahNumber)
		if err != nil {
			continue
		}
		out = append(out, ResolvedBookmark{Bookmark: b, Surah: surah})
	}
	return out, nil
}

func (s *BookmarkService) IsBookmarked(ctx context.Context, userID int64, surahNumber, verseNumber int) (bool, error) {
	list, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return indexOf(list, entities.BookmarkKey{SurahNumber: surahNumber, VerseNumber: verseNumber}) >= 0, nil
}

// Keys returns the set of bookmarked verses of a surah.
func (s *BookmarkService) Keys(ctx context.Context, userID int64, surahNumber int) (map[int]bool, error) {
	list, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys := make(map[int]bool)
	for _, b := range list {
		if b.SurahNumber == surahNumber {
			keys[b.VerseNumber] = true
		}
	}
	return keys, nil
}

func (s *BookmarkService) Count(ctx context.Context, userID int64) (int, error) {
	list, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (s *BookmarkService) load(ctx context.Context, userID int64) ([]entities.Bookmark, error) {
	return preferences.Get(ctx, s.store, userID, preferences.KeyBookmarks, []entities.Bookmark{})
}

// modify applies fn to the stored list. A nil result means no change.
func (s *BookmarkService) modify(ctx context.Context, userID int64, fn func([]entities.Bookmark) []entities.Bookmark) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	list, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	next := fn(list)
	if next == nil {
		return nil
	}
	return preferences.Set(ctx, s.store, userID, preferences.KeyBookmarks, next)
}

func (s *BookmarkService) newBookmark(surahNumber, verseNumber int) entities.Bookmark {
	return entities.Bookmark{SurahNumber: surahNumber, VerseNumber: verseNumber, CreatedAt: s.now()}
}

func indexOf(list []entities.Bookmark, key entities.BookmarkKey) int {
	for i, b := range list {
		if b.Key() == key {
			return i
		}
	}
	return -1
}
