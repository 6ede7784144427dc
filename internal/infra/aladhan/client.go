// Package aladhan is a client for the aladhan.com prayer times API.
package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

const (
	DefaultBaseURL = "https://api.aladhan.com/v1"

	defaultTimeout = 10 * time.Second
)

var (
	ErrUnexpectedStatus  = errors.New("aladhan: unexpected status")
	ErrMalformedResponse = errors.New("aladhan: malformed response")
)

type apiResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
		Meta    struct {
			Timezone string `json:"timezone"`
		} `json:"meta"`
	} `json:"data"`
}

// Client fetches daily prayer timings.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client. An empty baseURL uses the public API.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("adapter", "aladhan")),
	}
}

// Timings returns the prayer times for date at loc using method. The
// returned location carries the time zone reported by the API.
func (c *Client) Timings(
	ctx context.Context,
	date time.Time,
	loc entities.Location,
	method entities.CalculationMethod,
) (*entities.PrayerTimes, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 6, 64))
	q.Set("method", strconv.Itoa(method.AladhanID()))

	reqURL := fmt.Sprintf("%s/timings/%s?%s", c.baseURL, date.Format("02-01-2006"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("aladhan: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aladhan: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("aladhan: decode json: %w", err)
	}
	if payload.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code %d", ErrMalformedResponse, payload.Code)
	}

	prayers := make([]entities.Prayer, 0, len(entities.PrayerOrder))
	for _, p := range entities.PrayerOrder {
		raw, ok := payload.Data.Timings[string(p)]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, p)
		}
		minutes, err := entities.ParseClock(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		prayers = append(prayers, entities.Prayer{
			Type: p,
			Time: fmt.Sprintf("%02d:%02d", minutes/60, minutes%60),
		})
	}

	if tz := payload.Data.Meta.Timezone; tz != "" {
		loc.Timezone = tz
	}

	c.logger.Debug("timings fetched",
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude),
		zap.String("method", string(method)),
	)

	return &entities.PrayerTimes{
		Date:     date,
		Location: loc,
		Method:   method,
		Prayers:  prayers,
	}, nil
}
