// Package quranapi is a client for the alquran.cloud text API.
package quranapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.alquran.cloud/v1"

	EditionArabic          = "quran-uthmani"
	EditionTransliteration = "en.transliteration"

	defaultTimeout = 10 * time.Second
)

var (
	ErrUnexpectedStatus  = errors.New("quranapi: unexpected status")
	ErrMalformedResponse = errors.New("quranapi: malformed response")
)

// Config configures the client. Zero values use defaults; RatePerSecond
// of 0 disables pacing.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
}

// Ayah is a single verse of one edition.
type Ayah struct {
	Number        int
	NumberInSurah int
	Text          string
}

// Edition is the text of a surah in one edition.
type Edition struct {
	Identifier  string
	SurahNumber int
	EnglishName string
	Ayahs       []Ayah
}

// Client fetches surah texts from alquran.cloud.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, max(1, int(cfg.RatePerSecond))),
		logger:     logger.With(zap.String("adapter", "quranapi")),
	}
}

// FetchEdition fetches one surah in the given edition.
func (c *Client) FetchEdition(ctx context.Context, surahNumber int, edition string) (*Edition, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("quranapi: wait for rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/surah/%d/%s", c.baseURL, surahNumber, edition)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("quranapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quranapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("quranapi: read body: %w", err)
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("quranapi: decode json: %w", err)
	}

	if payload.Code != http.StatusOK || payload.Data == nil {
		return nil, fmt.Errorf("%w: code %d", ErrMalformedResponse, payload.Code)
	}

	result := mapSurah(payload.Data, edition)

	c.logger.Debug("edition fetched",
		zap.Int("surah", surahNumber),
		zap.String("edition", edition),
		zap.Int("ayahs", len(result.Ayahs)),
	)

	return result, nil
}

func mapSurah(s *apiSurah, edition string) *Edition {
	ayahs := make([]Ayah, len(s.Ayahs))
	for i, a := range s.Ayahs {
		ayahs[i] = Ayah{
			Number:        a.Number,
			NumberInSurah: a.NumberInSurah,
			Text:          a.Text,
		}
	}

	id := s.Edition.Identifier
	if id == "" {
		id = edition
	}

	return &Edition{
		Identifier:  id,
		SurahNumber: s.Number,
		EnglishName: s.EnglishName,
		Ayahs:       ayahs,
	}
}
