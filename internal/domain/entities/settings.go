package entities

import "fmt"

const (
	MinFontSize     = 20
	MaxFontSize     = 48
	DefaultFontSize = 32
	FontSizeStep    = 2

	DefaultReciterID = "mishary"
)

// Theme is the persisted colour scheme of the reader.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Language is the translation language chosen by the user.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageUrdu    Language = "urdu"
	LanguageArabic  Language = "arabic"
	LanguageFrench  Language = "french"
	LanguageSpanish Language = "spanish"
	LanguageTurkish Language = "turkish"
)

// Languages lists supported translation languages in display order.
var Languages = []Language{
	LanguageEnglish, LanguageUrdu, LanguageArabic,
	LanguageFrench, LanguageSpanish, LanguageTurkish,
}

var translationEditions = map[Language]string{
	LanguageEnglish: "en.asad",
	LanguageUrdu:    "ur.jalandhry",
	LanguageArabic:  "ar.muyassar",
	LanguageFrench:  "fr.hamidullah",
	LanguageSpanish: "es.cortes",
	LanguageTurkish: "tr.diyanet",
}

// Edition returns the text API edition identifier of the translation.
// Unknown languages use the English edition.
func (l Language) Edition() string {
	if e, ok := translationEditions[l]; ok {
		return e
	}
	return translationEditions[LanguageEnglish]
}

func (l Language) Valid() bool {
	_, ok := translationEditions[l]
	return ok
}

// CalculationMethod is a prayer-time calculation convention.
type CalculationMethod string

const (
	MethodMWL     CalculationMethod = "MWL"
	MethodISNA    CalculationMethod = "ISNA"
	MethodEgypt   CalculationMethod = "EGYPT"
	MethodMakkah  CalculationMethod = "MAKKAH"
	MethodKarachi CalculationMethod = "KARACHI"
	MethodTehran  CalculationMethod = "TEHRAN"
	MethodJafari  CalculationMethod = "JAFARI"
)

// CalculationMethods lists supported methods in display order.
var CalculationMethods = []CalculationMethod{
	MethodMWL, MethodISNA, MethodEgypt, MethodMakkah,
	MethodKarachi, MethodTehran, MethodJafari,
}

type methodInfo struct {
	displayName string
	aladhanID   int
	fajrAngle   float64
	ishaAngle   float64
}

var methods = map[CalculationMethod]methodInfo{
	MethodMWL:     {"Muslim World League", 3, 18.0, 17.0},
	MethodISNA:    {"Islamic Society of North America", 2, 15.0, 15.0},
	MethodEgypt:   {"Egyptian General Authority", 5, 19.5, 17.5},
	MethodMakkah:  {"Umm Al-Qura University, Makkah", 4, 18.5, 90.0},
	MethodKarachi: {"University of Islamic Sciences, Karachi", 1, 18.0, 18.0},
	MethodTehran:  {"Institute of Geophysics, University of Tehran", 7, 17.7, 14.0},
	MethodJafari:  {"Shia Ithna-Ashari", 0, 16.0, 14.0},
}

func (m CalculationMethod) Valid() bool {
	_, ok := methods[m]
	return ok
}

func (m CalculationMethod) DisplayName() string {
	if info, ok := methods[m]; ok {
		return info.displayName
	}
	return string(m)
}

// AladhanID returns the method identifier used by the aladhan.com API.
// Unknown methods map to Muslim World League.
func (m CalculationMethod) AladhanID() int {
	if info, ok := methods[m]; ok {
		return info.aladhanID
	}
	return methods[MethodMWL].aladhanID
}

// Angles returns the sun depression angles used for Fajr and Isha. An Isha
// angle of 90 means a fixed 90 minutes after Maghrib.
func (m CalculationMethod) Angles() (fajr, isha float64) {
	info, ok := methods[m]
	if !ok {
		info = methods[MethodMWL]
	}
	return info.fajrAngle, info.ishaAngle
}

// Location is the place prayer times and the Qibla are computed for.
type Location struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"` // IANA name or UTC offset, see ParseTimezoneLocation
}

// DefaultLocation is used until the user shares a location.
func DefaultLocation() Location {
	return Location{
		City:      "New York",
		Country:   "USA",
		Latitude:  40.7128,
		Longitude: -74.0060,
		Timezone:  "America/New_York",
	}
}

// DisplayName returns "City, Country" or formatted coordinates.
func (l Location) DisplayName() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	case l.Country != "":
		return l.Country
	default:
		return l.FormattedCoordinates()
	}
}

// FormattedCoordinates renders coordinates like "40.7128° N, 74.0060° W".
func (l Location) FormattedCoordinates() string {
	latDir, lonDir := "N", "E"
	lat, lon := l.Latitude, l.Longitude
	if lat < 0 {
		latDir, lat = "S", -lat
	}
	if lon < 0 {
		lonDir, lon = "W", -lon
	}
	return fmt.Sprintf("%.4f° %s, %.4f° %s", lat, latDir, lon, lonDir)
}

// Settings stores user preferences for reading, audio and prayer times.
type Settings struct {
	FontSize               int               `json:"fontSize"`               // Arabic font size, 20-48
	TranslationEnabled     bool              `json:"translationEnabled"`     // show translation under verses
	TransliterationEnabled bool              `json:"transliterationEnabled"` // show transliteration under verses
	Theme                  Theme             `json:"theme"`                  // light or dark
	Reciter                string            `json:"reciter"`                // reciter id
	Language               Language          `json:"language"`               // translation language
	Location               Location          `json:"location"`               // prayer-times location
	Method                 CalculationMethod `json:"method"`                 // prayer-times calculation method
	DailyVerse             bool              `json:"dailyVerse"`             // daily verse subscription
}

// DefaultSettings returns settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		FontSize:               DefaultFontSize,
		TranslationEnabled:     true,
		TransliterationEnabled: false,
		Theme:                  ThemeLight,
		Reciter:                DefaultReciterID,
		Language:               LanguageEnglish,
		Location:               DefaultLocation(),
		Method:                 MethodMWL,
		DailyVerse:             false,
	}
}

// ClampFontSize keeps size within [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	return min(max(size, MinFontSize), MaxFontSize)
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	FontSize               *int
	TranslationEnabled     *bool
	TransliterationEnabled *bool
	Theme                  *Theme
	Reciter                *string
	Language               *Language
	Location               *Location
	Method                 *CalculationMethod
	DailyVerse             *bool
}

// Apply merges the patch into s and returns the result. Font size is
// clamped; invalid enum values are ignored.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.FontSize != nil {
		s.FontSize = ClampFontSize(*p.FontSize)
	}
	if p.TranslationEnabled != nil {
		s.TranslationEnabled = *p.TranslationEnabled
	}
	if p.TransliterationEnabled != nil {
		s.TransliterationEnabled = *p.TransliterationEnabled
	}
	if p.Theme != nil && p.Theme.Valid() {
		s.Theme = *p.Theme
	}
	if p.Reciter != nil && *p.Reciter != "" {
		s.Reciter = *p.Reciter
	}
	if p.Language != nil && p.Language.Valid() {
		s.Language = *p.Language
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Method != nil && p.Method.Valid() {
		s.Method = *p.Method
	}
	if p.DailyVerse != nil {
		s.DailyVerse = *p.DailyVerse
	}
	return s
}
