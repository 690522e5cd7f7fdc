package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

var testEndpoints = Endpoints{
	NewsList:   "/api/admin/news/",
	NewsUpdate: "/news/update/{id}/",
	NewsDelete: "/news/delete/{id}/",
	Users:      "/api/admin/users/",
}

func newTestClient(t *testing.T, srv *httptest.Server, csrf string) *Client {
	t.Helper()
	cl, err := NewClient(Options{
		BaseURL:   srv.URL,
		Timeout:   time.Second,
		SessionID: "sess",
		CSRFToken: csrf,
		Endpoints: testEndpoints,
	})
	require.NoError(t, err)
	return cl
}

func TestClient_ListNews(t *testing.T) {
	var calls int32
	r := chi.NewRouter()
	r.Get("/api/admin/news/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		assert.Equal(t, "election", q.Get("search"))
		assert.True(t, q.Has("date"))
		assert.Equal(t, "", q.Get("date"))
		assert.Equal(t, "Negative", q.Get("sentiment"))
		assert.Equal(t, "2", q.Get("page"))

		cookie, err := r.Cookie(SessionCookie)
		require.NoError(t, err)
		assert.Equal(t, "sess", cookie.Value)
		assert.Empty(t, r.Header.Get(CSRFHeader))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		render.JSON(w, r, map[string]any{
			"news":        []map[string]any{{"article_id": "n1", "title": "Vote count"}},
			"total_pages": 3,
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cl := newTestClient(t, srv, "tok")

	page, err := cl.ListNews(context.Background(), models.Filter{
		Search:    "election",
		Sentiment: models.SentimentNegative,
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, models.NewsPage{
		News:       []models.Article{{ID: "n1", Title: "Vote count"}},
		TotalPages: 3,
	}, page)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	_, err = cl.ListNews(context.Background(), models.Filter{}, 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = cl.ListNews(context.Background(), models.Filter{}, -3)
	assert.ErrorIs(t, err, ErrInvalidPage)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "invalid pages must not hit the backend")
}

func TestNewsQuery(t *testing.T) {
	q := NewsQuery(models.Filter{Search: "election", Sentiment: models.SentimentNegative}, 2)
	assert.Equal(t, "date=&department=&page=2&search=election&sentiment=Negative", q.Encode())
}

func TestClient_UpdateNews(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/news/update/{id}/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "n 1", chi.URLParam(r, "id"))
		assert.Equal(t, "tok", r.Header.Get(CSRFHeader))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var upd models.ArticleUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&upd))
		assert.Equal(t, "New title", upd.Title)
		assert.Equal(t, models.SentimentPositive, upd.Sentiment)

		render.JSON(w, r, map[string]any{"success": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cl := newTestClient(t, srv, "tok")
	err := cl.UpdateNews(context.Background(), "n 1", models.ArticleUpdate{
		Title:     "New title",
		Sentiment: models.SentimentPositive,
	})
	require.NoError(t, err)
}

func TestClient_DeleteNews(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/news/delete/{id}/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get(CSRFHeader))
		switch chi.URLParam(r, "id") {
		case "ok":
			render.JSON(w, r, map[string]any{"message": "deleted"})
		case "refused":
			render.JSON(w, r, map[string]any{"success": false, "error": "article is locked"})
		case "silent":
			render.JSON(w, r, map[string]any{"success": false})
		default:
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]any{"detail": "not found"})
		}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cl := newTestClient(t, srv, "tok")
	ctx := context.Background()

	require.NoError(t, cl.DeleteNews(ctx, "ok"))

	err := cl.DeleteNews(ctx, "refused")
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "article is locked", appErr.Message)

	err = cl.DeleteNews(ctx, "silent")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Failed to delete news", appErr.Message)

	err = cl.DeleteNews(ctx, "missing")
	var stErr *StatusError
	require.True(t, errors.As(err, &stErr))
	assert.Equal(t, http.StatusNotFound, stErr.Code)
	assert.Contains(t, stErr.Body, "not found")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Users(t *testing.T) {
	const usersPath = "/api/admin/users/"
	var created, updated, deleted models.UserInput
	r := chi.NewRouter()
	r.Get(usersPath, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: CSRFCookie, Value: "fresh", Path: "/"})
		render.JSON(w, r, models.UserList{Users: []models.User{
			{ID: 1, Username: "ann", Email: "ann@x", IsStaff: true, IsActive: true},
		}})
	})
	r.Post(usersPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fresh", r.Header.Get(CSRFHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		render.JSON(w, r, map[string]any{"success": true, "id": 2})
	})
	r.Put(usersPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fresh", r.Header.Get(CSRFHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		render.JSON(w, r, map[string]any{"success": false, "error": "User not found"})
	})
	r.Delete(usersPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fresh", r.Header.Get(CSRFHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&deleted))
		render.JSON(w, r, map[string]any{"success": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	// no configured token: the one issued by the backend is picked from the jar
	cl := newTestClient(t, srv, "")
	ctx := context.Background()

	users, err := cl.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ann", users[0].Username)

	require.NoError(t, cl.CreateUser(ctx, models.UserInput{ID: 9, Username: "bob", Email: "b@x", Password: "pw"}))
	assert.Equal(t, models.UserInput{Username: "bob", Email: "b@x", Password: "pw"}, created)

	err = cl.UpdateUser(ctx, models.UserInput{ID: 5, Username: "eve", Email: "e@x"})
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "User not found", appErr.Message)
	assert.Equal(t, models.UserInput{ID: 5, Username: "eve", Email: "e@x"}, updated)

	require.NoError(t, cl.DeleteUser(ctx, 1))
	assert.EqualValues(t, 1, deleted.ID)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cl := newTestClient(t, srv, "")
	srv.Close()

	_, err := cl.ListUsers(context.Background())
	require.Error(t, err)
	var stErr *StatusError
	assert.False(t, errors.As(err, &stErr))
}

func TestClient_LogsMaskedCSRF(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/news/delete/{id}/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "very-secret", r.Header.Get(CSRFHeader))
		render.JSON(w, r, map[string]any{"message": "deleted"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	buf := &bytes.Buffer{}
	cl, err := NewClient(Options{
		BaseURL:   srv.URL,
		Timeout:   time.Second,
		CSRFToken: "very-secret",
		Endpoints: testEndpoints,
		Logger:    slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, err)

	require.NoError(t, cl.DeleteNews(context.Background(), "7"))

	out := buf.String()
	assert.Contains(t, out, "X-Csrftoken:***")
	assert.Contains(t, out, "X-Request-Id:")
	assert.NotContains(t, out, "very-secret")
}
