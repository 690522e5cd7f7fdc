package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID identifies an entity on the backend.
type ID string

func (id ID) String() string { return string(id) }

// Int64 returns the numeric form of the identifier.
func (id ID) Int64() (int64, error) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing id %q: %w", string(id), err)
	}
	return n, nil
}

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Sentiments lists the labels the backend knows, in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// ParseSentiment matches a label case-insensitively. The empty string is
// returned as is and means "any".
func ParseSentiment(s string) (Sentiment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, v := range Sentiments {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment %q", s)
}

type Article struct {
	ID         ID        `json:"article_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary,omitempty"`
	Source     string    `json:"source"`
	Date       string    `json:"date"`
	Sentiment  Sentiment `json:"sentiment"`
	Department string    `json:"department,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	URL        string    `json:"url,omitempty"`
}

// UnmarshalJSON accepts the identifier either as "article_id" or as "id",
// numeric or string.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	var aux struct {
		plain
		ArticleID json.RawMessage `json:"article_id"`
		AltID     json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Article(aux.plain)

	raw := aux.ArticleID
	if len(raw) == 0 || string(raw) == "null" {
		raw = aux.AltID
	}
	id, err := rawID(raw)
	if err != nil {
		return fmt.Errorf("decoding article id: %w", err)
	}
	a.ID = id
	return nil
}

// PublishedAt parses the article date. Both a bare date and RFC 3339 occur.
func (a Article) PublishedAt() (time.Time, bool) {
	if a.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.Parse(layout, a.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateLayout is the date format used by filters and edit forms.
const DateLayout = "2006-01-02"

// ArticleUpdate is the partial update payload for an article.
type ArticleUpdate struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Sentiment   Sentiment `json:"sentiment"`
	LastUpdated string    `json:"last_updated"`
}

const DefaultContent = "No content provided."

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  bool   `json:"is_active"`
}

func (u User) Key() ID { return ID(strconv.FormatInt(u.ID, 10)) }

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserInput is the create and update payload for a user. Password is
// write-only and left out of updates when empty.
type UserInput struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

type NewsPage struct {
	News       []Article `json:"news"`
	TotalPages int       `json:"total_pages"`
}

type UserList struct {
	Users []User `json:"users"`
}

// Filter is the live filter state of a list. It is never persisted.
type Filter struct {
	Search     string
	Date       string
	Sentiment  Sentiment
	Department string
}

// Result is the envelope of mutation responses.
type Result struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func rawID(raw json.RawMessage) (ID, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ID(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return ID(n.String()), nil
}
