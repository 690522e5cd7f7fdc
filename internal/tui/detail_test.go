package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

func TestRenderer_Markdown(t *testing.T) {
	r := NewRenderer("notty", time.Minute)

	doc, err := r.Markdown(models.Article{
		ID:         "1",
		Title:      "Floods",
		Source:     "Reuters",
		Sentiment:  models.SentimentNegative,
		Department: "World",
		Date:       "2024-05-01",
		Content:    `<p>Rivers <b>rose</b> overnight.</p><script>alert("x")</script>`,
		URL:        "https://example.com/floods",
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "# Floods")
	assert.Contains(t, doc, "*Reuters · Negative · World · 2024-05-01*")
	assert.Contains(t, doc, "Rivers **rose** overnight.")
	assert.NotContains(t, doc, "alert")
	assert.Contains(t, doc, "[Read the original](https://example.com/floods)")

	doc, err = r.Markdown(models.Article{ID: "2"})
	require.NoError(t, err)
	assert.Contains(t, doc, "# Untitled")
	assert.Contains(t, doc, models.DefaultContent)
}

func TestRenderer_RenderCaches(t *testing.T) {
	r := NewRenderer("notty", time.Minute)
	a := models.Article{ID: "1", Title: "Floods", Content: "<p>Rivers rose overnight.</p>"}

	out, err := r.Render(a, 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Floods")
	assert.Contains(t, out, "Rivers rose overnight.")
	assert.Equal(t, 1, r.cache.Len())

	again, err := r.Render(a, 60)
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Equal(t, 1, r.cache.Len())

	_, err = r.Render(a, 80)
	require.NoError(t, err)
	assert.Equal(t, 2, r.cache.Len(), "width is part of the key")

	a.Content = "<p>Rivers fell.</p>"
	edited, err := r.Render(a, 60)
	require.NoError(t, err)
	assert.Contains(t, edited, "Rivers fell.")
	assert.Equal(t, 3, r.cache.Len(), "edited articles render again")
}
