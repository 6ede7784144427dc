package repository

import "github.com/aliskhannn/manzil-bot/internal/domain/entities"

// ReciterRepository is the fixed table of supported reciters.
type ReciterRepository struct {
	reciters []*entities.Reciter
	byID     map[string]*entities.Reciter
}

// NewReciterRepository creates the reciter table.
func NewReciterRepository() *ReciterRepository {
	reciters := []*entities.Reciter{
		{
			ID:           entities.DefaultReciterID,
			Name:         "Mishary Rashid Alafasy",
			Country:      "Kuwait",
			SurahBaseURL: "https://server8.mp3quran.net/afs",
			VerseBaseURL: "https://everyayah.com/data/Alafasy_128kbps",
		},
		{
			ID:           "abdulbasit",
			Name:         "Abdul Basit Abdul Samad",
			Country:      "Egypt",
			SurahBaseURL: "https://server7.mp3quran.net/basit",
			VerseBaseURL: "https://everyayah.com/data/Abdul_Basit_Murattal_192kbps",
		},
		{
			ID:           "sudais",
			Name:         "Abdur-Rahman As-Sudais",
			Country:      "Saudi Arabia",
			SurahBaseURL: "https://server11.mp3quran.net/sds",
			VerseBaseURL: "https://everyayah.com/data/Abdurrahmaan_As-Sudais_192kbps",
		},
		{
			ID:           "husary",
			Name:         "Mahmoud Khalil Al-Husary",
			Country:      "Egypt",
			SurahBaseURL: "https://server8.mp3quran.net/hsr",
			VerseBaseURL: "https://everyayah.com/data/Husary_128kbps",
		},
		{
			ID:           "ghamadi",
			Name:         "Saad Al-Ghamdi",
			Country:      "Saudi Arabia",
			SurahBaseURL: "https://server10.mp3quran.net/s_gmd",
			VerseBaseURL: "https://everyayah.com/data/Ghamadi_40kbps",
		},
		{
			ID:           "minshawi",
			Name:         "Mohamed Siddiq Al-Minshawi",
			Country:      "Egypt",
			SurahBaseURL: "https://server10.mp3quran.net/minsh",
			VerseBaseURL: "https://everyayah.com/data/Minshawi_Murattal_128kbps",
		},
		{
			ID:           "shuraim",
			Name:         "Sa'ud Ash-Shuraim",
			Country:      "Saudi Arabia",
			SurahBaseURL: "https://server11.mp3quran.net/shr",
			VerseBaseURL: "https://everyayah.com/data/Shuraym_128kbps",
		},
		{
			ID:           "ajmy",
			Name:         "Ahmed ibn Ali al-Ajamy",
			Country:      "Saudi Arabia",
			SurahBaseURL: "https://server10.mp3quran.net/ajm",
			VerseBaseURL: "https://everyayah.com/data/Ahmed_ibn_Ali_al-Ajamy_128kbps",
		},
	}

	byID := make(map[string]*entities.Reciter, len(reciters))
	for _, r := range reciters {
		byID[r.ID] = r
	}

	return &ReciterRepository{reciters: reciters, byID: byID}
}

// GetAll returns reciters in display order.
func (r *ReciterRepository) GetAll() []*entities.Reciter {
	return r.reciters
}

// Exists reports whether id names a known reciter.
func (r *ReciterRepository) Exists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Resolve returns the reciter with the given id. Unknown ids resolve to
// the default reciter.
func (r *ReciterRepository) Resolve(id string) *entities.Reciter {
	if rec, ok := r.byID[id]; ok {
		return rec
	}
	return r.byID[entities.DefaultReciterID]
}

// SurahAudioURL returns the whole-surah recitation URL.
func (r *ReciterRepository) SurahAudioURL(surahNumber int, reciterID string) string {
	return r.Resolve(reciterID).SurahAudioURL(surahNumber)
}

// VerseAudioURL returns the per-verse recitation URL.
func (r *ReciterRepository) VerseAudioURL(surahNumber, verseNumber int, reciterID string) string {
	return r.Resolve(reciterID).VerseAudioURL(surahNumber, verseNumber)
}
