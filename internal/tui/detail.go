package tui

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/glamour"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// Renderer turns article content into terminal output. Content is sanitized,
// converted to Markdown and rendered with glamour. Rendered output is cached
// per article version and width.
type Renderer struct {
	policy *bluemonday.Policy
	conv   *md.Converter
	style  string
	cache  cache.Cache[string, string]
}

// NewRenderer makes a renderer using the named glamour style, e.g. "dark" or
// "notty". Cached output expires after ttl.
func NewRenderer(style string, ttl time.Duration) *Renderer {
	if style == "" {
		style = "dark"
	}
	return &Renderer{
		policy: bluemonday.UGCPolicy(),
		conv:   md.NewConverter("", true, nil),
		style:  style,
		cache: cache.NewCache[string, string]().
			WithLRU().
			WithMaxKeys(200).
			WithTTL(ttl),
	}
}

// Markdown builds the Markdown document of an article.
func (r *Renderer) Markdown(a models.Article) (string, error) {
	body := a.Content
	if strings.TrimSpace(body) == "" {
		body = models.DefaultContent
	}

	body, err := r.conv.ConvertString(r.policy.Sanitize(body))
	if err != nil {
		return "", fmt.Errorf("converting content of %s: %w", a.ID, err)
	}

	var s strings.Builder
	title := a.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&s, "# %s\n\n", title)

	meta := make([]string, 0, 4)
	for _, m := range []string{a.Source, string(a.Sentiment), a.Department, a.Date} {
		if m != "" {
			meta = append(meta, m)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintf(&s, "*%s*\n\n", strings.Join(meta, " · "))
	}

	if summary := strings.TrimSpace(r.policy.Sanitize(a.Summary)); summary != "" {
		fmt.Fprintf(&s, "> %s\n\n", summary)
	}

	s.WriteString(body)
	s.WriteString("\n")

	if a.URL != "" {
		fmt.Fprintf(&s, "\n[Read the original](%s)\n", a.URL)
	}
	if a.ImageURL != "" {
		fmt.Fprintf(&s, "\nImage: %s\n", a.ImageURL)
	}
	return s.String(), nil
}

// Render renders an article wrapped at width.
func (r *Renderer) Render(a models.Article, width int) (string, error) {
	k := r.key(a, width)
	if out, ok := r.cache.Get(k); ok {
		return out, nil
	}

	doc, err := r.Markdown(a)
	if err != nil {
		return "", err
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("making renderer: %w", err)
	}

	out, err := tr.Render(doc)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", a.ID, err)
	}

	r.cache.Set(k, out, 0)
	return out, nil
}

// key identifies one version of an article at one width, so edited articles
// are rendered again.
func (r *Renderer) key(a models.Article, width int) string {
	h := fnv.New64a()
	for _, s := range []string{a.Title, a.Content, a.Summary, a.Source, string(a.Sentiment), a.Department, a.Date, a.URL, a.ImageURL} {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%s:%d:%x", a.ID, width, h.Sum64())
}
