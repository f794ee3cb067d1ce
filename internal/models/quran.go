package models

// FirstSurah and LastSurah bound valid chapter numbers.
const (
	FirstSurah = 1
	LastSurah  = 114
)

// ValidSurah reports whether n is a chapter number.
func ValidSurah(n int) bool {
	return n >= FirstSurah && n <= LastSurah
}

// Surah is static chapter metadata.
type Surah struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

// Verse is one ayah of the bare Arabic text. Identity is (SurahNumber, NumberInSurah).
type Verse struct {
	Number        int    `json:"number"`
	SurahNumber   int    `json:"surahNumber"`
	NumberInSurah int    `json:"numberInSurah"`
	Text          string `json:"text"`
}

// Chapter is a surah with its verses, as held in the corpus.
type Chapter struct {
	Surah  Surah   `json:"surah"`
	Verses []Verse `json:"verses"`
}

// VerseRef points at a single ayah.
type VerseRef struct {
	Surah int `json:"surah"`
	Ayah  int `json:"ayah"`
}

// Edition describes a text, translation or recitation edition.
type Edition struct {
	Identifier  string `json:"identifier"`
	Language    string `json:"language"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
	Format      string `json:"format"`
	Type        string `json:"type"`
}

// Ayah is a verse as served by an edition, with optional audio.
type Ayah struct {
	Number         int      `json:"number"`
	NumberInSurah  int      `json:"numberInSurah"`
	Text           string   `json:"text"`
	Juz            int      `json:"juz"`
	Page           int      `json:"page"`
	Audio          string   `json:"audio,omitempty"`
	AudioSecondary []string `json:"audioSecondary,omitempty"`
}

// SurahEdition is one chapter rendered in one edition.
type SurahEdition struct {
	Surah
	Edition Edition `json:"edition"`
	Ayahs   []Ayah  `json:"ayahs"`
}

// Tafsir is commentary on a single verse.
type Tafsir struct {
	TafsirID   int    `json:"tafsirId"`
	TafsirName string `json:"tafsirName"`
	Surah      int    `json:"surah"`
	Ayah       int    `json:"ayah"`
	Text       string `json:"text"`
}
