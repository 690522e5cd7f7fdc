package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// NewsQuery builds the list query. Every filter key is present, empty when
// unset, as the backend expects.
func NewsQuery(f models.Filter, page int) url.Values {
	q := url.Values{}
	q.Set("search", f.Search)
	q.Set("date", f.Date)
	q.Set("sentiment", string(f.Sentiment))
	q.Set("department", f.Department)
	q.Set("page", strconv.Itoa(page))
	return q
}

// ListNews fetches one page of articles matching the filter.
func (c *Client) ListNews(ctx context.Context, f models.Filter, page int) (models.NewsPage, error) {
	if page < 1 {
		return models.NewsPage{}, ErrInvalidPage
	}

	u, err := c.resolve(c.endpoints.NewsList, "")
	if err != nil {
		return models.NewsPage{}, err
	}
	u.RawQuery = NewsQuery(f, page).Encode()

	var res models.NewsPage
	if err := c.do(ctx, http.MethodGet, u, nil, &res); err != nil {
		return models.NewsPage{}, fmt.Errorf("listing news: %w", err)
	}
	return res, nil
}

// UpdateNews sends a partial update of an article.
func (c *Client) UpdateNews(ctx context.Context, id models.ID, upd models.ArticleUpdate) error {
	u, err := c.resolve(c.endpoints.NewsUpdate, id.String())
	if err != nil {
		return err
	}
	if err := c.mutate(ctx, http.MethodPut, u, upd, "Failed to update news"); err != nil {
		return fmt.Errorf("updating news %s: %w", id, err)
	}
	return nil
}

// DeleteNews deletes an article.
func (c *Client) DeleteNews(ctx context.Context, id models.ID) error {
	u, err := c.resolve(c.endpoints.NewsDelete, id.String())
	if err != nil {
		return err
	}
	if err := c.mutate(ctx, http.MethodDelete, u, nil, "Failed to delete news"); err != nil {
		return fmt.Errorf("deleting news %s: %w", id, err)
	}
	return nil
}
