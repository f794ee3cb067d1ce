package models

// MatchResult is the best verse for a search query.
type MatchResult struct {
	SurahNumber      int     `json:"surahNumber"`
	AyahNumber       int     `json:"ayahNumber"`
	Text             string  `json:"text"`
	SurahName        string  `json:"surahName"`
	SurahEnglishName string  `json:"surahEnglishName"`
	Score            float64 `json:"score"`
}

// SearchAyahRequest is the body of POST /search-ayah.
type SearchAyahRequest struct {
	SearchText string `json:"searchText"`
}

// LocateKind says how a locate request was resolved.
type LocateKind string

const (
	LocateNumber   LocateKind = "number"
	LocateLocal    LocateKind = "local"
	LocateGlobal   LocateKind = "global"
	LocateCooldown LocateKind = "cooldown"
	LocateNone     LocateKind = "none"
)

// LocateRequest is the body of POST /locate.
type LocateRequest struct {
	Text         string `json:"text"`
	CurrentSurah int    `json:"currentSurah"`
}

// LocateResult tells the client where to navigate, if anywhere.
type LocateResult struct {
	Kind        LocateKind `json:"kind"`
	SurahNumber int        `json:"surahNumber,omitempty"`
	AyahNumber  int        `json:"ayahNumber,omitempty"`
	Text        string     `json:"text,omitempty"`
	Score       float64    `json:"score,omitempty"`
}

// Navigates reports whether the client should jump.
func (r LocateResult) Navigates() bool {
	switch r.Kind {
	case LocateNumber, LocateLocal, LocateGlobal:
		return true
	}
	return false
}

// ScoredVerse is a translation verse with a semantic similarity score.
type ScoredVerse struct {
	SurahNumber int     `json:"surahNumber" db:"surah_number"`
	AyahNumber  int     `json:"ayahNumber" db:"ayah_number"`
	Edition     string  `json:"edition" db:"edition"`
	Text        string  `json:"text" db:"text"`
	Score       float64 `json:"score" db:"score"`
}

// MeaningSearchRequest is the body of POST /search-meaning.
type MeaningSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// MeaningSearchResponse is the response of POST /search-meaning.
type MeaningSearchResponse struct {
	Query   string        `json:"query"`
	Results []ScoredVerse `json:"results"`
}
