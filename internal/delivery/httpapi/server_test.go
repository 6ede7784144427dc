package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/assets"
	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/repository"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

type stubVerses struct {
	mu       sync.Mutex
	edition  string
	reciter  string
	fallback bool
}

func (s *stubVerses) FetchVersesWithEdition(_ context.Context, surahNumber int, edition, reciterID string) service.VerseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edition, s.reciter = edition, reciterID
	return service.VerseResult{
		Verses:   []entities.Verse{{NumberInSurah: 1, SurahNumber: surahNumber, Text: "نص"}},
		Fallback: s.fallback,
	}
}

type stubPrayer struct{}

func (stubPrayer) Today(_ context.Context, loc entities.Location, method entities.CalculationMethod) (*service.PrayerReport, error) {
	if err := entities.ValidateCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return nil, err
	}
	if !method.Valid() {
		method = entities.MethodMWL
	}
	now := time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)
	times := entities.FallbackPrayerTimes(now, loc, method)
	next := times.Prayers[3]
	return &service.PrayerReport{Times: times, Now: now, Next: &next, Remaining: 2 * time.Hour}, nil
}

func (stubPrayer) Qibla(loc entities.Location) (*entities.QiblaDirection, error) {
	return entities.NewQiblaDirection(loc)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func newTestServer(t *testing.T, checks ...Check) (*Server, *stubVerses) {
	t.Helper()

	surahs, err := repository.NewSurahRepositoryFromJSON(assets.SurahsJSON)
	require.NoError(t, err)

	verses := &stubVerses{}
	srv := NewServer(":0", zap.NewNop(), Services{
		Catalog: service.NewCatalogService(surahs, repository.NewReciterRepository()),
		Verses:  verses,
		Prayer:  stubPrayer{},
		Checks:  checks,
	})
	return srv, verses
}

func do(t *testing.T, srv *Server, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec, env := do(t, srv, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestRequestIDIsPropagated(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	healthy := Check{Name: "postgres", Fn: func(context.Context) error { return nil }}
	broken := Check{Name: "redis", Fn: func(context.Context) error { return errors.New("connection refused") }}

	srv, _ := newTestServer(t, healthy)
	rec, env := do(t, srv, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"ready"`)

	srv, _ = newTestServer(t, healthy, broken)
	rec, env = do(t, srv, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string        `json:"status"`
		Checks []checkResult `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "degraded", body.Status)
	require.Len(t, body.Checks, 2)
	assert.True(t, body.Checks[0].OK)
	assert.Equal(t, checkResult{Name: "redis", OK: false, Error: "connection refused"}, body.Checks[1])
}

func TestSurahs(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec, env := do(t, srv, "/api/v1/surahs")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []entities.Surah
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, entities.TotalSurahs)
	assert.Equal(t, "Al-Fatihah", all[0].EnglishName)

	rec, env = do(t, srv, "/api/v1/surahs?q=kahf")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []entities.Surah
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.NotEmpty(t, found)
	assert.Equal(t, 18, found[0].Number)

	_, env = do(t, srv, "/api/v1/surahs?q=zzzz")
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestGetSurah(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{name: "found", target: "/api/v1/surahs/2", status: http.StatusOK},
		{name: "out of range", target: "/api/v1/surahs/115", status: http.StatusNotFound, code: "surah_not_found"},
		{name: "zero", target: "/api/v1/surahs/0", status: http.StatusNotFound, code: "surah_not_found"},
		{name: "not a number", target: "/api/v1/surahs/abc", status: http.StatusBadRequest, code: "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := do(t, srv, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, env.Code)
			if tt.status == http.StatusOK {
				var s entities.Surah
				require.NoError(t, json.Unmarshal(env.Data, &s))
				assert.Equal(t, "Al-Baqarah", s.EnglishName)
				assert.Equal(t, 286, s.NumberOfAyahs)
			}
		})
	}
}

func TestGetVerses(t *testing.T) {
	t.Parallel()

	srv, verses := newTestServer(t)
	verses.fallback = true

	rec, env := do(t, srv, "/api/v1/surahs/1/verses?reciter=unknown")
	require.Equal(t, http.StatusOK, rec.Code)

	var body versesResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, 1, body.Surah.Number)
	assert.True(t, body.Fallback)
	assert.Equal(t, entities.DefaultReciterID, body.Reciter)
	assert.Equal(t, "en.asad", body.Edition)
	require.Len(t, body.Verses, 1)

	_, _ = do(t, srv, "/api/v1/surahs/1/verses?edition=fr.hamidullah&reciter=husary")
	verses.mu.Lock()
	assert.Equal(t, "fr.hamidullah", verses.edition)
	assert.Equal(t, "husary", verses.reciter)
	verses.mu.Unlock()

	rec, env = do(t, srv, "/api/v1/surahs/200/verses")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "surah_not_found", env.Code)
}

func TestGetSurahAudio(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec, env := do(t, srv, "/api/v1/surahs/36/audio?reciter=husary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body audioResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "https://server8.mp3quran.net/hsr/036.mp3", body.URL)
	assert.Equal(t, "husary", body.Reciter.ID)
}

func TestReciters(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec, env := do(t, srv, "/api/v1/reciters")
	require.Equal(t, http.StatusOK, rec.Code)

	var reciters []entities.Reciter
	require.NoError(t, json.Unmarshal(env.Data, &reciters))
	require.Len(t, reciters, 8)
	assert.Equal(t, entities.DefaultReciterID, reciters[0].ID)
	assert.Empty(t, reciters[0].SurahBaseURL, "hosts are not exposed")
}

func TestPrayerTimes(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec, env := do(t, srv, "/api/v1/prayer-times?lat=21.4225&lon=39.8262&method=makkah&city=Makkah")
	require.Equal(t, http.StatusOK, rec.Code)

	var body prayerTimesResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "2026-10-16", body.Date)
	assert.Equal(t, "MAKKAH", body.Method)
	assert.Equal(t, "Makkah", body.Location.City)
	require.Len(t, body.Prayers, 6)
	require.NotNil(t, body.Next)
	assert.Equal(t, entities.PrayerAsr, body.Next.Type)
	assert.Equal(t, int64(7200), body.RemainingSeconds)
	assert.True(t, body.Fallback)

	rec, env = do(t, srv, "/api/v1/prayer-times?lon=39.8")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", env.Code)

	rec, env = do(t, srv, "/api/v1/prayer-times?lat=95&lon=39.8")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_coordinates", env.Code)
}

func TestQibla(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec, env := do(t, srv, "/api/v1/qibla?lat=51.5074&lon=-0.1278")
	require.Equal(t, http.StatusOK, rec.Code)

	var body qiblaResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.InDelta(t, 119.0, body.Bearing, 1.0)
	assert.Equal(t, "Southeast", body.Compass)
	assert.InDelta(t, 4790, body.DistanceKm, 50)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec, env := do(t, srv, "/api/v2/anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Code)
}
