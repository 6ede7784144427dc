package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

type versesResponse struct {
	Surah    *entities.Surah  `json:"surah"`
	Edition  string           `json:"edition"`
	Reciter  string           `json:"reciter"`
	Verses   []entities.Verse `json:"verses"`
	Fallback bool             `json:"fallback"`
}

type audioResponse struct {
	SurahNumber int               `json:"surahNumber"`
	URL         string            `json:"url"`
	Reciter     *entities.Reciter `json:"reciter"`
}

type prayerTimesResponse struct {
	Date             string            `json:"date"`
	Location         entities.Location `json:"location"`
	Method           string            `json:"method"`
	MethodName       string            `json:"methodName"`
	Prayers          []entities.Prayer `json:"prayers"`
	Current          *entities.Prayer  `json:"current"`
	Next             *entities.Prayer  `json:"next"`
	RemainingSeconds int64             `json:"remainingSeconds"`
	Fallback         bool              `json:"fallback"`
}

type qiblaResponse struct {
	Bearing    float64           `json:"bearing"`
	Compass    string            `json:"compass"`
	DistanceKm float64           `json:"distanceKm"`
	Location   entities.Location `json:"location"`
}

// listSurahs handles GET /api/v1/surahs. With ?q= it searches by name,
// meaning or number.
func (s *Server) listSurahs(w http.ResponseWriter, r *http.Request) {
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		results := s.catalog.Search(q)
		if results == nil {
			results = []*entities.Surah{}
		}
		ok(w, results)
		return
	}
	ok(w, s.catalog.ListSurahs())
}

func (s *Server) getSurah(w http.ResponseWriter, r *http.Request) {
	surah, err := s.surahFromPath(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	ok(w, surah)
}

// getVerses handles GET /api/v1/surahs/{number}/verses. The response is
// always complete: when the text API is unavailable the verses are
// placeholders and fallback is true.
func (s *Server) getVerses(w http.ResponseWriter, r *http.Request) {
	surah, err := s.surahFromPath(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	query := r.URL.Query()
	edition := query.Get("edition")
	if edition == "" {
		edition = entities.LanguageEnglish.Edition()
	}
	reciter := s.catalog.Reciter(query.Get("reciter"))

	res := s.verses.FetchVersesWithEdition(r.Context(), surah.Number, edition, reciter.ID)
	ok(w, versesResponse{
		Surah:    surah,
		Edition:  edition,
		Reciter:  reciter.ID,
		Verses:   res.Verses,
		Fallback: res.Fallback,
	})
}

func (s *Server) getSurahAudio(w http.ResponseWriter, r *http.Request) {
	surah, err := s.surahFromPath(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	reciter := s.catalog.Reciter(r.URL.Query().Get("reciter"))
	url, err := s.catalog.SurahAudioURL(surah.Number, reciter.ID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	ok(w, audioResponse{SurahNumber: surah.Number, URL: url, Reciter: reciter})
}

func (s *Server) listReciters(w http.ResponseWriter, _ *http.Request) {
	ok(w, s.catalog.Reciters())
}

// getPrayerTimes handles GET /api/v1/prayer-times?lat=&lon=&method=&tz=.
func (s *Server) getPrayerTimes(w http.ResponseWriter, r *http.Request) {
	loc, err := locationFromQuery(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	method := entities.CalculationMethod(strings.ToUpper(r.URL.Query().Get("method")))

	report, err := s.prayer.Today(r.Context(), loc, method)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	times := report.Times
	ok(w, prayerTimesResponse{
		Date:             report.Now.Format("2006-01-02"),
		Location:         times.Location,
		Method:           string(times.Method),
		MethodName:       times.Method.DisplayName(),
		Prayers:          times.Prayers,
		Current:          report.Current,
		Next:             report.Next,
		RemainingSeconds: int64(report.Remaining.Seconds()),
		Fallback:         times.Fallback,
	})
}

func (s *Server) getQibla(w http.ResponseWriter, r *http.Request) {
	loc, err := locationFromQuery(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	q, err := s.prayer.Qibla(loc)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	ok(w, qiblaResponse{
		Bearing:    q.Bearing,
		Compass:    q.CompassPoint(),
		DistanceKm: q.DistanceKm,
		Location:   q.Location,
	})
}

func (s *Server) surahFromPath(r *http.Request) (*entities.Surah, error) {
	raw := chi.URLParam(r, "number")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: surah number %q", errBadRequest, raw)
	}
	return s.catalog.GetSurah(n)
}

func locationFromQuery(r *http.Request) (entities.Location, error) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		return entities.Location{}, fmt.Errorf("%w: lat is required", errBadRequest)
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		return entities.Location{}, fmt.Errorf("%w: lon is required", errBadRequest)
	}
	if err := entities.ValidateCoordinates(lat, lon); err != nil {
		return entities.Location{}, err
	}

	return entities.Location{
		City:      query.Get("city"),
		Latitude:  lat,
		Longitude: lon,
		Timezone:  query.Get("tz"),
	}, nil
}
