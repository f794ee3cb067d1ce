package models

// HadithGrade is a scholar's authenticity grading.
type HadithGrade struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

// HadithReference locates a hadith inside its collection's books.
type HadithReference struct {
	Book   int `json:"book"`
	Hadith int `json:"hadith"`
}

// Hadith is a single narration.
type Hadith struct {
	HadithNumber float64         `json:"hadithnumber"`
	ArabicNumber float64         `json:"arabicnumber"`
	Text         string          `json:"text"`
	Grades       []HadithGrade   `json:"grades"`
	Reference    HadithReference `json:"reference"`
}

// HadithCollection is a whole edition as published on the CDN.
type HadithCollection struct {
	Metadata struct {
		Name     string            `json:"name"`
		Sections map[string]string `json:"sections"`
	} `json:"metadata"`
	Hadiths []Hadith `json:"hadiths"`
}

// HadithPage is a window into a collection.
type HadithPage struct {
	Collection string   `json:"collection"`
	Name       string   `json:"name"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Total      int      `json:"total"`
	Hadiths    []Hadith `json:"hadiths"`
}
