package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/samber/lo"
)

const (
	// CSRFCookie is the cookie the backend issues its CSRF token in.
	CSRFCookie = "csrftoken"
	// CSRFHeader carries the token on mutating requests.
	CSRFHeader = "X-CSRFToken"
	// SessionCookie is the backend session cookie.
	SessionCookie = "sessionid"
	// RequestIDHeader tags every request for log correlation. The client sets
	// it before the request enters the middleware chain.
	RequestIDHeader = "X-Request-ID"
)

// CSRF sets the CSRF header on every mutating request. The token is read
// from the jar cookie for the request URL, falling back to the given one.
func CSRF(jar http.CookieJar, fallback string) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if !isMutating(req.Method) {
				return next.RoundTrip(req)
			}

			token := fallback
			if jar != nil {
				for _, c := range jar.Cookies(req.URL) {
					if c.Name == CSRFCookie && c.Value != "" {
						token = c.Value
						break
					}
				}
			}
			if token == "" {
				return next.RoundTrip(req)
			}
			if unescaped, err := url.QueryUnescape(token); err == nil {
				token = unescaped
			}

			req = req.Clone(req.Context())
			req.Header.Set(CSRFHeader, token)
			return next.RoundTrip(req)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// LoggingOpts contains options for the client logger.
type LoggingOpts struct {
	Level         slog.Level
	SecretHeaders []string
}

// Logging logs every request and its response.
func Logging(lg *slog.Logger, opts LoggingOpts) middleware.RoundTripperHandler {
	secret := lo.Map(opts.SecretHeaders, func(h string, _ int) string { return http.CanonicalHeaderKey(h) })

	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if !lg.Enabled(req.Context(), opts.Level) {
				return next.RoundTrip(req)
			}

			var reqBody string
			req.Body, reqBody = copyAndTrim(req.Body)

			lg.LogAttrs(req.Context(), opts.Level, "request sent",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Any("headers", maskHeaders(req.Header, secret)),
				slog.String("body", reqBody),
			)

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				lg.LogAttrs(req.Context(), opts.Level, "request failed",
					slog.String("request_id", req.Header.Get(RequestIDHeader)),
					slog.Duration("elapsed", elapsed),
					slog.Any("err", err),
				)
				return resp, err
			}

			var respBody string
			resp.Body, respBody = copyAndTrim(resp.Body)

			lg.LogAttrs(req.Context(), opts.Level, "response received",
				slog.String("request_id", req.Header.Get(RequestIDHeader)),
				slog.Int("status", resp.StatusCode),
				slog.Any("headers", maskHeaders(resp.Header, secret)),
				slog.String("body", respBody),
				slog.Duration("elapsed", elapsed),
			)

			return resp, nil
		})
	}
}

func maskHeaders(h http.Header, secret []string) map[string]string {
	res := make(map[string]string, len(h))
	for k, vals := range h {
		if lo.Contains(secret, k) {
			res[k] = "***"
			continue
		}
		res[k] = strings.Join(vals, ",")
	}
	return res
}

const trimBodyAt = 1024

func copyAndTrim(r io.ReadCloser) (rd io.ReadCloser, result string) {
	if r == nil || r == http.NoBody {
		return r, ""
	}

	rd, result, read := readPortion(r, trimBodyAt)
	if read == trimBodyAt {
		result += "..."
	}
	result = strings.ReplaceAll(result, "\n", "")
	result = strings.ReplaceAll(result, "\t", "")

	return rd, result
}

func readPortion(src io.ReadCloser, limit int64) (rd io.ReadCloser, portion string, read int64) {
	buf := &bytes.Buffer{}

	read, err := io.CopyN(buf, src, limit)
	if err != nil {
		_ = src.Close()
		return io.NopCloser(bytes.NewReader(buf.Bytes())), buf.String(), read
	}

	return &closer{rd: io.MultiReader(bytes.NewReader(buf.Bytes()), src), closeFn: src.Close}, buf.String(), read
}

type closer struct {
	rd      io.Reader
	closeFn func() error
}

func (c *closer) Read(p []byte) (n int, err error) { return c.rd.Read(p) }
func (c *closer) Close() error                     { return c.closeFn() }
