package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/preferences"
)

// SettingsService reads and updates user settings. The theme lives under
// its own preference key and takes precedence over the theme stored
// inside the settings value.
type SettingsService struct {
	store    *preferences.Store
	reciters ReciterRepository
	logger   *zap.Logger
	locks    userLocks
}

func NewSettingsService(store *preferences.Store, reciters ReciterRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, reciters: reciters, logger: logger}
}

// GetOrCreate returns the user's settings, storing the defaults on first use.
func (s *SettingsService) GetOrCreate(ctx context.Context, userID int64) (*entities.Settings, error) {
	res, err := preferences.Lookup[entities.Settings](ctx, s.store, userID, preferences.KeySettings)
	if err != nil {
		return nil, err
	}

	settings := res.Value
	if !res.Present {
		settings = entities.DefaultSettings()
		if err := preferences.Set(ctx, s.store, userID, preferences.KeySettings, settings); err != nil {
			return nil, err
		}
	}

	theme, err := s.Theme(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.Theme = theme

	s.normalize(&settings)
	return &settings, nil
}

// Update merges patch into the stored settings.
func (s *SettingsService) Update(ctx context.Context, userID int64, patch entities.SettingsPatch) (*entities.Settings, error) {
	if patch.Location != nil {
		if err := entities.ValidateCoordinates(patch.Location.Latitude, patch.Location.Longitude); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	current, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*current)
	s.normalize(&updated)

	if err := preferences.Set(ctx, s.store, userID, preferences.KeySettings, updated); err != nil {
		return nil, err
	}
	if updated.Theme != current.Theme {
		if err := preferences.Set(ctx, s.store, userID, preferences.KeyTheme, updated.Theme); err != nil {
			return nil, err
		}
	}

	return &updated, nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *SettingsService) ToggleTheme(ctx context.Context, userID int64) (entities.Theme, error) {
	current, err := s.Theme(ctx, userID)
	if err != nil {
		return "", err
	}

	next := current.Toggle()
	if _, err := s.Update(ctx, userID, entities.SettingsPatch{Theme: &next}); err != nil {
		return "", err
	}
	return next, nil
}

// Theme returns the stored theme, light when none is stored.
func (s *SettingsService) Theme(ctx context.Context, userID int64) (entities.Theme, error) {
	theme, err := preferences.Get(ctx, s.store, userID, preferences.KeyTheme, entities.ThemeLight)
	if err != nil {
		return entities.ThemeLight, err
	}
	if !theme.Valid() {
		return entities.ThemeLight, nil
	}
	return theme, nil
}

// normalize repairs values that may have been stored by an older build or
// written by hand.
func (s *SettingsService) normalize(settings *entities.Settings) {
	settings.FontSize = entities.ClampFontSize(settings.FontSize)
	if !s.reciters.Exists(settings.Reciter) {
		s.logger.Debug("unknown reciter, using default", zap.String("reciter", settings.Reciter))
		settings.Reciter = entities.DefaultReciterID
	}
	if !settings.Language.Valid() {
		settings.Language = entities.LanguageEnglish
	}
	if !settings.Method.Valid() {
		settings.Method = entities.MethodMWL
	}
	if !settings.Theme.Valid() {
		settings.Theme = entities.ThemeLight
	}
}
