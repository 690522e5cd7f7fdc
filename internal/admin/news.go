package admin

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// NewsBackend is the part of the API client the news list needs.
type NewsBackend interface {
	ListNews(ctx context.Context, f models.Filter, page int) (models.NewsPage, error)
	UpdateNews(ctx context.Context, id models.ID, upd models.ArticleUpdate) error
	DeleteNews(ctx context.Context, id models.ID) error
}

// NewsResource serves news articles. The backend pages and filters them.
type NewsResource struct {
	Backend NewsBackend
	Now     func() time.Time
}

func (r NewsResource) List(ctx context.Context, q Query) (Page[models.Article], error) {
	res, err := r.Backend.ListNews(ctx, q.Filter, q.Page)
	if err != nil {
		return Page[models.Article]{}, err
	}
	return Page[models.Article]{Items: res.News, TotalPages: res.TotalPages}, nil
}

// Create is not offered by the news backend.
func (r NewsResource) Create(context.Context, Values) error { return ErrNotSupported }

func (r NewsResource) Update(ctx context.Context, id models.ID, v Values) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	upd, err := ArticleUpdate(v, now())
	if err != nil {
		return err
	}
	return r.Backend.UpdateNews(ctx, id, upd)
}

func (r NewsResource) Delete(ctx context.Context, id models.ID) error {
	return r.Backend.DeleteNews(ctx, id)
}

// ArticleUpdate builds the partial update payload from form values.
func ArticleUpdate(v Values, now time.Time) (models.ArticleUpdate, error) {
	s, err := models.ParseSentiment(v.Get("sentiment"))
	if err != nil {
		return models.ArticleUpdate{}, &ValidationError{Field: "sentiment", Message: err.Error()}
	}
	if s == "" {
		s = models.SentimentNeutral
	}

	content := v.Get("content")
	if content == "" {
		content = models.DefaultContent
	}

	return models.ArticleUpdate{
		Title:       v.Get("title"),
		Content:     content,
		Source:      v.Get("source"),
		Sentiment:   s,
		LastUpdated: now.UTC().Format(time.RFC3339),
	}, nil
}

// NewsSchema is the entity table of news articles. Articles without a source
// URL link to their page under site.
func NewsSchema(site string) Schema[models.Article] {
	sentiments := make([]string, len(models.Sentiments))
	for i, s := range models.Sentiments {
		sentiments[i] = string(s)
	}

	return Schema[models.Article]{
		Entity:  "news",
		Noun:    "News",
		Title:   "News",
		Empty:   "No news articles found.",
		Filters: []string{FilterSearch, FilterDate, FilterSentiment, FilterDepartment},
		Fields: []Field{
			{Key: "title", Label: "Title", Kind: FieldText},
			{Key: "content", Label: "Content", Kind: FieldMultiline},
			{Key: "source", Label: "Source", Kind: FieldText},
			{Key: "sentiment", Label: "Sentiment", Kind: FieldChoice, Options: sentiments},
		},
		ID:       func(a models.Article) models.ID { return a.ID },
		Render:   func(a models.Article) Card { return renderArticle(a, site) },
		Populate: populateArticle,
		Validate: validateArticle,
	}
}

func renderArticle(a models.Article, site string) Card {
	card := Card{
		Title: a.Title,
		Fields: []CardField{
			{Label: "Source", Value: a.Source},
			{Label: "Sentiment", Value: string(a.Sentiment)},
		},
		Link: a.URL,
	}
	if a.Department != "" {
		card.Fields = append(card.Fields, CardField{Label: "Department", Value: a.Department})
	}
	if ts, ok := a.PublishedAt(); ok {
		card.Fields = append(card.Fields, CardField{
			Label: "Published",
			Value: ts.Format(models.DateLayout) + " (" + humanize.Time(ts) + ")",
		})
	}
	if a.ImageURL != "" {
		card.Fields = append(card.Fields, CardField{Label: "Image", Value: a.ImageURL})
	}
	if card.Link == "" && a.ID != "" {
		card.Link = strings.TrimRight(site, "/") + "/news/" + url.PathEscape(a.ID.String())
	}
	return card
}

func populateArticle(a models.Article) Values {
	v := Values{
		"title":     a.Title,
		"content":   a.Content,
		"source":    a.Source,
		"sentiment": string(a.Sentiment),
	}
	if v["title"] == "" {
		v["title"] = "Untitled"
	}
	if v["content"] == "" {
		v["content"] = models.DefaultContent
	}
	if v["source"] == "" {
		v["source"] = "Unknown"
	}
	if v["sentiment"] == "" {
		v["sentiment"] = string(models.SentimentNeutral)
	}
	return v
}

func validateArticle(v Values, _ bool) error {
	if v.Get("title") == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if _, err := models.ParseSentiment(v.Get("sentiment")); err != nil {
		return &ValidationError{Field: "sentiment", Message: err.Error()}
	}
	return nil
}
