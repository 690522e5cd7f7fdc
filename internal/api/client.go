// Package api is a client for the news management backend admin API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"github.com/google/uuid"
	"github.com/thomaskoefod/newsadmin/pkg/models"
	"golang.org/x/net/publicsuffix"
)

// Endpoints is the endpoint table of the managed entities, relative to the
// base URL. News update and delete templates carry an {id} placeholder.
type Endpoints struct {
	NewsList   string
	NewsUpdate string
	NewsDelete string
	Users      string
}

// Options configure the client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	SessionID string
	CSRFToken string
	Endpoints Endpoints
	Logger    *slog.Logger
}

type Client struct {
	base      *url.URL
	endpoints Endpoints
	rq        *requester.Requester
	log       *slog.Logger
}

// NewClient makes a client. The session and CSRF values, when set, seed the
// cookie jar for the backend host.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	var seed []*http.Cookie
	if opts.SessionID != "" {
		seed = append(seed, &http.Cookie{Name: SessionCookie, Value: opts.SessionID, Path: "/"})
	}
	if opts.CSRFToken != "" {
		seed = append(seed, &http.Cookie{Name: CSRFCookie, Value: opts.CSRFToken, Path: "/"})
	}
	if len(seed) > 0 {
		jar.SetCookies(base, seed)
	}

	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}

	// the last handler wraps the others, so the logger sees final headers
	rq := requester.New(
		http.Client{Timeout: opts.Timeout, Jar: jar},
		Logging(lg, LoggingOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Cookie", "Set-Cookie", CSRFHeader},
		}),
		CSRF(jar, opts.CSRFToken),
		middleware.JSON,
	)

	return &Client{
		base:      base,
		endpoints: opts.Endpoints,
		rq:        rq,
		log:       lg,
	}, nil
}

// resolve joins an endpoint path, with the optional id substituted, onto
// the base URL.
func (c *Client) resolve(endpoint string, id string) (*url.URL, error) {
	if id != "" {
		endpoint = strings.ReplaceAll(endpoint, "{id}", url.PathEscape(id))
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint %q: %w", endpoint, err)
	}
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawQuery = ref.RawQuery
	return &u, nil
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is not nil.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	resp, err := c.rq.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s %s: %w", method, u.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WarnContext(ctx, "backend rejected request",
			slog.String("method", method),
			slog.String("path", u.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("request_id", reqID),
		)
		return &StatusError{Code: resp.StatusCode, Body: trimBody(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// mutate sends a mutating request and checks the success envelope. A
// response without the success key counts as success.
func (c *Client) mutate(ctx context.Context, method string, u *url.URL, body any, failure string) error {
	var res models.Result
	if err := c.do(ctx, method, u, body, &res); err != nil {
		return err
	}
	if res.Success != nil && !*res.Success {
		msg := res.Error
		if msg == "" {
			msg = failure
		}
		return &AppError{Message: msg}
	}
	return nil
}

func trimBody(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
