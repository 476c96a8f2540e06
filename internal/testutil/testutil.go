package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/platform/crypto"

	"github.com/golang-jwt/jwt/v5"
)

// TestAuthor is a stored author profile for testing
var TestAuthor = entity.Author{
	Asin:        "B001IGFHW6",
	Region:      "us",
	Name:        "Brandon Sanderson",
	Description: "Brandon Sanderson grew up in Lincoln, Nebraska.",
	Genres: []entity.Genre{
		{Asin: "18580606011", Name: "Science Fiction & Fantasy", Type: entity.GenreTypeGenre},
	},
}

// TestBook is a stored book profile for testing
var TestBook = entity.Book{
	Asin:      "B08G9PRS1K",
	Region:    "us",
	Title:     "Rhythm of War",
	Subtitle:  "The Stormlight Archive, Book 4",
	Authors:   []entity.Person{{Asin: TestAuthor.Asin, Name: TestAuthor.Name}},
	Narrators: []entity.Person{{Name: "Michael Kramer"}, {Name: "Kate Reading"}},
	Publisher: "Macmillan Audio",
	Genres: []entity.Genre{
		{Asin: "18580606011", Name: "Science Fiction & Fantasy", Type: entity.GenreTypeGenre},
		{Asin: "18580607011", Name: "Fantasy", Type: entity.GenreTypeTag},
	},
}

// TestChapters is a stored chapter listing for testing
var TestChapters = entity.ChapterInfo{
	Asin:             "B08G9PRS1K",
	Region:           "us",
	IsAccurate:       true,
	RuntimeLengthMs:  930000,
	RuntimeLengthSec: 930,
	Chapters: []entity.Chapter{
		{Title: "Opening Credits", LengthMs: 30000},
		{Title: "Prologue", LengthMs: 900000, StartOffsetMs: 30000, StartOffsetSec: 30},
	},
}

// GenerateTestToken generates a JWT token for testing
func GenerateTestToken(secret, subject, role string) string {
	token, _ := crypto.GenerateToken(secret, subject, role, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired JWT token for testing
func GenerateExpiredToken(secret, subject, role string) string {
	c := crypto.Claims{
		Sub:  subject,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequestWithAuth creates a new HTTP request with JWT auth for testing
func NewRequestWithAuth(method, path, token string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Envelope is the decoded httpx JSON body.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DecodeEnvelope decodes a JSON response. Non-JSON bodies give a zero Envelope.
func DecodeEnvelope(w *httptest.ResponseRecorder) (Envelope, error) {
	var env Envelope
	if w.Header().Get("Content-Type") != "application/json" {
		return env, nil
	}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	return env, err
}
