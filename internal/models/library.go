package models

import "time"

// User is an anonymous reader identified by a client session id.
type User struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"sessionId" db:"session_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Bookmark marks a verse for later.
type Bookmark struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	SurahNumber int       `json:"surahNumber" db:"surah_number"`
	AyahNumber  int       `json:"ayahNumber" db:"ayah_number"`
	Note        string    `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ReadingPosition is the last verse a user read.
type ReadingPosition struct {
	UserID      string    `json:"userId" db:"user_id"`
	SurahNumber int       `json:"surahNumber" db:"surah_number"`
	AyahNumber  int       `json:"ayahNumber" db:"ayah_number"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Preferences are per-user reader settings.
type Preferences struct {
	UserID             string    `json:"userId" db:"user_id"`
	Reciter            string    `json:"reciter" db:"reciter"`
	TranslationEdition string    `json:"translationEdition" db:"translation_edition"`
	Theme              string    `json:"theme" db:"theme"`
	FontSize           int       `json:"fontSize" db:"font_size"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// Book is metadata for a document the user uploaded; the file stays on the client.
type Book struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author,omitempty" db:"author"`
	FileName  string    `json:"fileName" db:"file_name"`
	FileSize  int64     `json:"fileSize" db:"file_size"`
	PageCount int       `json:"pageCount" db:"page_count"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateBookmarkRequest is the body of POST /bookmarks.
type CreateBookmarkRequest struct {
	SurahNumber int    `json:"surahNumber"`
	AyahNumber  int    `json:"ayahNumber"`
	Note        string `json:"note"`
}

// ReadingPositionRequest is the body of PUT /reading-position.
type ReadingPositionRequest struct {
	SurahNumber int `json:"surahNumber"`
	AyahNumber  int `json:"ayahNumber"`
}

// PreferencesRequest is the body of PUT /preferences.
type PreferencesRequest struct {
	Reciter            string `json:"reciter"`
	TranslationEdition string `json:"translationEdition"`
	Theme              string `json:"theme"`
	FontSize           int    `json:"fontSize"`
}

// CreateBookRequest is the body of POST /books.
type CreateBookRequest struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	PageCount int    `json:"pageCount"`
}

// SessionResponse is returned by POST /session.
type SessionResponse struct {
	SessionID string `json:"sessionId"`
	User      User   `json:"user"`
}
