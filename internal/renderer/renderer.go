// Package renderer is the terminal stand-in for a platform web view: it
// fetches pages, renders HTML to text and keeps per-session site data
// (a page cache and cookies) that can be wiped in one call.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/publicsuffix"
)

// MaxBodyBytes caps how much of a response is read.
const MaxBodyBytes = 4 << 20

// ErrUnsupportedScheme is returned for URLs that are not http(s) with a host.
var ErrUnsupportedScheme = errors.New("unsupported url")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return "http status " + e.Status }

// Page is a fetched and rendered document.
type Page struct {
	URL         *url.URL
	Title       string
	Lines       []string
	Links       []string
	ContentType string
	FetchedAt   time.Time
}

// Options configure a Renderer. Zero values fall back to defaults.
type Options struct {
	Timeout   time.Duration
	CacheSize int
	UserAgent string
	Transport http.RoundTripper
}

// Renderer is safe for concurrent use; loads run as background commands.
type Renderer struct {
	mu        sync.Mutex
	opts      Options
	client    *http.Client
	cache     *lru.Cache[string, *Page]
	userAgent string
}

func New(opts Options) (*Renderer, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 32
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "linkview/1.0"
	}
	cache, err := lru.New[string, *Page](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("page cache: %w", err)
	}
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	return &Renderer{opts: opts, client: client, cache: cache, userAgent: opts.UserAgent}, nil
}

func newClient(opts Options) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &http.Client{Timeout: opts.Timeout, Jar: jar, Transport: opts.Transport}, nil
}

// Renderable reports whether u can be loaded.
func Renderable(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

func cacheKey(u *url.URL) string {
	c := *u
	c.Fragment = ""
	return c.String()
}

// Load returns the cached page for u, fetching it on a miss.
func (r *Renderer) Load(ctx context.Context, u *url.URL) (*Page, error) {
	if !Renderable(u) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u)
	}
	r.mu.Lock()
	page, ok := r.cache.Get(cacheKey(u))
	r.mu.Unlock()
	if ok {
		return page, nil
	}
	return r.fetch(ctx, u)
}

// Reload fetches u bypassing the cache and replaces the cached copy.
func (r *Renderer) Reload(ctx context.Context, u *url.URL) (*Page, error) {
	if !Renderable(u) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u)
	}
	log.Printf("reload %s", u)
	return r.fetch(ctx, u)
}

// Cached reports whether u has a cached page.
func (r *Renderer) Cached(u *url.URL) bool {
	if u == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Contains(cacheKey(u))
}

// ClearSiteData drops every cached page and all cookies.
func (r *Renderer) ClearSiteData() {
	client, err := newClient(r.opts)
	r.mu.Lock()
	r.cache.Purge()
	if err == nil {
		r.client = client
	}
	r.mu.Unlock()
	if err != nil {
		log.Printf("clear site data: keep cookies: %v", err)
		return
	}
	log.Printf("site data cleared")
}

func (r *Renderer) fetch(ctx context.Context, u *url.URL) (*Page, error) {
	r.mu.Lock()
	client := r.client
	r.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	final := resp.Request.URL
	page, err := renderBody(final, resp.Header.Get("Content-Type"), io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", final, err)
	}
	page.FetchedAt = time.Now()

	r.mu.Lock()
	r.cache.Add(cacheKey(u), page)
	r.mu.Unlock()
	return page, nil
}

func renderBody(final *url.URL, contentType string, body io.Reader) (*Page, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		mediaType = "text/html"
	}
	page := &Page{URL: final, ContentType: mediaType}

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		doc, err := renderHTML(final, body)
		if err != nil {
			return nil, err
		}
		page.Title, page.Lines, page.Links = doc.title, doc.lines, doc.links
	case strings.HasPrefix(mediaType, "text/"), mediaType == "application/json":
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		page.Lines = strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	default:
		n, err := io.Copy(io.Discard, body)
		if err != nil {
			return nil, err
		}
		page.Lines = []string{fmt.Sprintf("[%s, %d bytes]", mediaType, n)}
	}
	if page.Title == "" {
		page.Title = final.Host
	}
	return page, nil
}
