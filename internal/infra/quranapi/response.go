package quranapi

// apiResponse is the envelope returned by every alquran.cloud endpoint.
type apiResponse struct {
	Code   int       `json:"code"`
	Status string    `json:"status"`
	Data   *apiSurah `json:"data"`
}

// apiSurah is a surah in a single edition.
type apiSurah struct {
	Number        int        `json:"number"`
	Name          string     `json:"name"`
	EnglishName   string     `json:"englishName"`
	NumberOfAyahs int        `json:"numberOfAyahs"`
	Edition       apiEdition `json:"edition"`
	Ayahs         []apiAyah  `json:"ayahs"`
}

type apiEdition struct {
	Identifier string `json:"identifier"`
	Language   string `json:"language"`
}

type apiAyah struct {
	Number        int    `json:"number"`
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah"`
}
