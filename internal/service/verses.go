package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/quranapi"
)

const (
	DefaultTranslationEdition = "en.asad"

	bismillah = "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"

	msgTranslationUnavailable     = "Translation not available"
	msgTransliterationUnavailable = "Transliteration not available"

	defaultFetchTimeout = 10 * time.Second
)

// VerseResult is the outcome of a verse fetch. Fallback is true when the
// verses are local placeholders.
type VerseResult struct {
	Verses   []entities.Verse
	Fallback bool
}

// VerseService loads surah texts from the remote API and degrades to
// locally generated placeholders when the API is unavailable.
type VerseService struct {
	surahs   SurahRepository
	reciters ReciterRepository
	fetcher  EditionFetcher
	timeout  time.Duration
	logger   *zap.Logger
	offsets  map[int]int // surah number -> global number of its first verse minus one
}

func NewVerseService(
	surahs SurahRepository,
	reciters ReciterRepository,
	fetcher EditionFetcher,
	timeout time.Duration,
	logger *zap.Logger,
) *VerseService {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	offsets := make(map[int]int, entities.TotalSurahs)
	total := 0
	for _, s := range surahs.GetAll() {
		offsets[s.Number] = total
		total += s.NumberOfAyahs
	}

	return &VerseService{
		surahs:   surahs,
		reciters: reciters,
		fetcher:  fetcher,
		timeout:  timeout,
		logger:   logger,
		offsets:  offsets,
	}
}

// FetchVerses returns the verses of a surah with the default translation
// and reciter. It never fails: an unknown surah yields an empty slice and
// an unavailable API yields placeholders.
func (s *VerseService) FetchVerses(ctx context.Context, surahNumber int) []entities.Verse {
	return s.FetchVersesWithEdition(ctx, surahNumber, DefaultTranslationEdition, entities.DefaultReciterID).Verses
}

// FetchVersesWithEdition is FetchVerses with an explicit translation
// edition and reciter.
func (s *VerseService) FetchVersesWithEdition(ctx context.Context, surahNumber int, edition, reciterID string) VerseResult {
	surah, err := s.surahs.GetByNumber(surahNumber)
	if err != nil {
		return VerseResult{Verses: []entities.Verse{}}
	}
	if edition == "" {
		edition = DefaultTranslationEdition
	}
	reciter := s.reciters.Resolve(reciterID)

	verses, err := s.fetchLive(ctx, surah, edition, reciter)
	if err != nil {
		s.logger.Warn("verse fetch failed, using placeholders",
			zap.Int("surah", surahNumber),
			zap.String("edition", edition),
			zap.Error(err),
		)
		return VerseResult{Verses: s.placeholders(surah, reciter), Fallback: true}
	}

	return VerseResult{Verses: verses}
}

// FetchVerse returns a single verse of a surah.
func (s *VerseService) FetchVerse(ctx context.Context, surahNumber, verseNumber int, edition, reciterID string) (entities.Verse, bool, error) {
	res := s.FetchVersesWithEdition(ctx, surahNumber, edition, reciterID)
	if verseNumber < 1 || verseNumber > len(res.Verses) {
		return entities.Verse{}, false, fmt.Errorf("%w: %d:%d", ErrVerseNotFound, surahNumber, verseNumber)
	}
	return res.Verses[verseNumber-1], res.Fallback, nil
}

func (s *VerseService) fetchLive(ctx context.Context, surah *entities.Surah, edition string, reciter *entities.Reciter) ([]entities.Verse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var arabic, translation, transliteration *quranapi.Edition

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		arabic, err = s.fetcher.FetchEdition(gctx, surah.Number, quranapi.EditionArabic)
		return err
	})
	g.Go(func() error {
		var err error
		translation, err = s.secondary(gctx, surah.Number, edition)
		return err
	})
	g.Go(func() error {
		var err error
		transliteration, err = s.secondary(gctx, surah.Number, quranapi.EditionTransliteration)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(arabic.Ayahs) != surah.NumberOfAyahs {
		return nil, fmt.Errorf("%w: got %d ayahs for surah %d, want %d",
			quranapi.ErrMalformedResponse, len(arabic.Ayahs), surah.Number, surah.NumberOfAyahs)
	}

	englishName := arabic.EnglishName
	if englishName == "" {
		englishName = surah.EnglishName
	}

	verses := make([]entities.Verse, len(arabic.Ayahs))
	for i, a := range arabic.Ayahs {
		n := i + 1
		number := a.Number
		if number == 0 {
			number = s.offsets[surah.Number] + n
		}
		verses[i] = entities.Verse{
			Number:          number,
			NumberInSurah:   n,
			SurahNumber:     surah.Number,
			Text:            a.Text,
			Translation:     ayahText(translation, i, msgTranslationUnavailable),
			Transliteration: ayahText(transliteration, i, msgTransliterationUnavailable),
			AudioURL:        reciter.VerseAudioURL(surah.Number, n),
			Tafsir: fmt.Sprintf("Verse %d of Surah %s. For detailed commentary, please refer to classical "+
				"Tafsir sources like Ibn Kathir, Al-Jalalayn, or modern scholars.", n, englishName),
		}
	}

	return verses, nil
}

// secondary fetches a translation or transliteration. An error status or a
// response without usable data is not an error: its verses render as
// unavailable. Transport and decode failures still fail the fetch.
func (s *VerseService) secondary(ctx context.Context, surahNumber int, edition string) (*quranapi.Edition, error) {
	ed, err := s.fetcher.FetchEdition(ctx, surahNumber, edition)
	if errors.Is(err, quranapi.ErrMalformedResponse) || errors.Is(err, quranapi.ErrUnexpectedStatus) {
		return nil, nil
	}
	return ed, err
}

func (s *VerseService) placeholders(surah *entities.Surah, reciter *entities.Reciter) []entities.Verse {
	verses := make([]entities.Verse, surah.NumberOfAyahs)
	for i := range verses {
		n := i + 1

		text := fmt.Sprintf("آية %d من سورة %s", n, surah.Name)
		if n == 1 && surah.Number != 1 && surah.Number != 9 {
			text = bismillah
		}

		verses[i] = entities.Verse{
			Number:        s.offsets[surah.Number] + n,
			NumberInSurah: n,
			SurahNumber:   surah.Number,
			Text:          text,
			Translation: fmt.Sprintf("Verse %d of Surah %s. Please check your internet connection "+
				"for complete verse text.", n, surah.EnglishName),
			Transliteration: fmt.Sprintf("Verse %d", n),
			AudioURL:        reciter.VerseAudioURL(surah.Number, n),
			Tafsir:          fmt.Sprintf("Interpretation of verse %d from Surah %s.", n, surah.EnglishName),
		}
	}
	return verses
}

func ayahText(ed *quranapi.Edition, i int, missing string) string {
	if ed == nil || i >= len(ed.Ayahs) || ed.Ayahs[i].Text == "" {
		return missing
	}
	return ed.Ayahs[i].Text
}
