package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

// PrayerReport is the prayer schedule of a day evaluated at a moment.
type PrayerReport struct {
	Times     *entities.PrayerTimes
	Now       time.Time        // local time at the location
	Current   *entities.Prayer // nil when there are no times
	Next      *entities.Prayer // nil when all of today's prayers have passed
	Remaining time.Duration    // time until Next
}

// PrayerService computes prayer times and the Qibla direction.
type PrayerService struct {
	provider PrayerTimesProvider
	logger   *zap.Logger
	now      func() time.Time
}

func NewPrayerService(provider PrayerTimesProvider, logger *zap.Logger) *PrayerService {
	return &PrayerService{provider: provider, logger: logger, now: time.Now}
}

// Today returns today's prayer times at loc. When the provider fails the
// fixed fallback schedule is returned.
func (s *PrayerService) Today(ctx context.Context, loc entities.Location, method entities.CalculationMethod) (*PrayerReport, error) {
	if err := entities.ValidateCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return nil, err
	}
	if !method.Valid() {
		method = entities.MethodMWL
	}

	date := s.now().In(loc.ClockLocation())

	times, err := s.provider.Timings(ctx, date, loc, method)
	if err != nil {
		s.logger.Warn("prayer times unavailable, using fallback schedule",
			zap.String("location", loc.DisplayName()),
			zap.Error(err),
		)
		times = entities.FallbackPrayerTimes(date, loc, method)
	}

	return s.report(times), nil
}

// Qibla returns the direction of the Kaaba from loc.
func (s *PrayerService) Qibla(loc entities.Location) (*entities.QiblaDirection, error) {
	return entities.NewQiblaDirection(loc)
}

func (s *PrayerService) report(times *entities.PrayerTimes) *PrayerReport {
	now := s.now().In(times.Location.ClockLocation())
	r := &PrayerReport{Times: times, Now: now}

	if p, ok := times.Current(now); ok {
		r.Current = &p
	}
	if p, ok := times.Next(now); ok {
		r.Next = &p
		r.Remaining, _ = times.TimeUntilNext(now)
	}
	return r
}
