// Package fetch downloads job postings and reduces them to readable text
// so they can be scored against a resume.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/logging"
)

// DefaultTimeout bounds a single page download.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the fetcher to job boards.
const DefaultUserAgent = "Mozilla/5.0 (compatible; gitfolio/1.0)"

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 5 << 20

// Page is a downloaded HTML document.
type Page struct {
	URL        string
	HTML       string
	StatusCode int
}

// Error describes a failed page fetch.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves job posting pages over HTTP, optionally falling back
// to a headless browser for script-rendered boards.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	renderer     Renderer
	logger       *zap.Logger
	resolver     *net.Resolver
	allowPrivate bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client. Its dialer is not guarded, but
// hosts are still checked before each request.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithRenderer enables the browser fallback.
func WithRenderer(r Renderer) Option {
	return func(f *Fetcher) { f.renderer = r }
}

// AllowPrivateHosts permits URLs on loopback and private networks. Only
// for fetchers that never see untrusted URLs.
func AllowPrivateHosts() Option {
	return func(f *Fetcher) { f.allowPrivate = true }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = logging.OrNop(l) }
}

// New creates a Fetcher. Unless AllowPrivateHosts is given, URLs whose
// host resolves to a non-public address are refused.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    newGuardedClient(),
		userAgent: DefaultUserAgent,
		logger:    logging.OrNop(nil),
		resolver:  net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get downloads a page. A non-200 response returns both the page and an
// *Error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	if err := f.checkHost(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read body", Cause: err}
	}

	page := &Page{URL: rawURL, HTML: string(body), StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	return nil
}

// boilerplate is stripped from every page before text extraction.
const boilerplate = "script, style, noscript, svg, nav, header, footer, iframe, .cookie-banner, .cookie-consent"

// ExtractText returns the readable text of the first element matching one
// of content, after removing boilerplate and the noise selectors. When no
// content selector matches, the whole body is used.
func ExtractText(html string, content []string, noise []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	if len(noise) > 0 {
		doc.Find(strings.Join(noise, ", ")).Remove()
	}

	sel := doc.Find("body")
	for _, c := range content {
		if found := doc.Find(c); found.Length() > 0 {
			sel = found.First()
			break
		}
	}

	// block elements would otherwise run together
	sel.Find("p, li, h1, h2, h3, h4, br, div, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return normalizeLines(sel.Text()), nil
}

func normalizeLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
