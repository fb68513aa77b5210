// Package drivertest provides an in-memory [driver.Session] that fetches
// pages over HTTP and resolves selectors with goquery. It follows links,
// submits forms (including multipart uploads), toggles <details> elements and
// keeps cookies and a private HTTP cache, but runs no scripts and applies no
// CSS, so visibility is never checked.
package drivertest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gregjones/httpcache"
	"golang.org/x/net/html"

	"github.com/stolasapp/albumtest/internal/driver"
)

// ErrStale is returned when an element from a previous document is used.
var ErrStale = errors.New("stale element reference")

// Session is a [driver.Session] backed by an HTTP client.
type Session struct {
	client *http.Client
	url    *url.URL
	doc    *goquery.Document
	files  map[*html.Node]string
	closed bool
}

var _ driver.Session = (*Session)(nil)

// New creates a session with its own cookie jar and response cache.
func New() *Session {
	jar, _ := cookiejar.New(nil) // only fails on a bad public suffix list option
	return &Session{
		client: &http.Client{Jar: jar, Transport: httpcache.NewMemoryCacheTransport()},
		files:  make(map[*html.Node]string),
	}
}

// Navigate satisfies [driver.Session].
func (s *Session) Navigate(target string) error {
	if s.closed {
		return driver.ErrClosed
	}
	u, err := s.resolve(target)
	if err != nil {
		return err
	}
	return s.load(http.NewRequest(http.MethodGet, u.String(), nil))
}

// Refresh satisfies [driver.Session]. Like a browser reload, it revalidates
// the document even when the cached copy is still fresh.
func (s *Session) Refresh() error {
	if s.closed {
		return driver.ErrClosed
	}
	if s.url == nil {
		return errors.New("no document loaded")
	}
	req, err := http.NewRequest(http.MethodGet, s.url.String(), nil)
	if err == nil {
		req.Header.Set("Cache-Control", "no-cache")
	}
	return s.load(req, err)
}

// CurrentURL satisfies [driver.Session].
func (s *Session) CurrentURL() (string, error) {
	if s.closed {
		return "", driver.ErrClosed
	}
	if s.url == nil {
		return "about:blank", nil
	}
	return s.url.String(), nil
}

// Find satisfies [driver.Session].
func (s *Session) Find(selector string) (driver.Element, error) {
	if s.closed {
		return nil, driver.ErrClosed
	}
	if s.doc == nil {
		return nil, notFound(selector)
	}
	return s.first(s.doc.Selection, selector)
}

// FindAll satisfies [driver.Session].
func (s *Session) FindAll(selector string) ([]driver.Element, error) {
	if s.closed {
		return nil, driver.ErrClosed
	}
	if s.doc == nil {
		return nil, nil
	}
	return s.all(s.doc.Selection, selector), nil
}

// Quit satisfies [driver.Session].
func (s *Session) Quit() error {
	s.closed = true
	s.client.CloseIdleConnections()
	return nil
}

// HTML returns the current document's markup, for failure messages.
func (s *Session) HTML() string {
	if s.doc == nil {
		return ""
	}
	out, _ := s.doc.Html()
	return out
}

func (s *Session) first(root *goquery.Selection, selector string) (driver.Element, error) {
	sel := root.Find(selector).First()
	if sel.Length() == 0 {
		return nil, notFound(selector)
	}
	return &element{session: s, doc: s.doc, sel: sel}, nil
}

func (s *Session) all(root *goquery.Selection, selector string) []driver.Element {
	var out []driver.Element
	root.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, &element{session: s, doc: s.doc, sel: sel})
	})
	return out
}

func (s *Session) resolve(target string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if s.url != nil {
		u = s.url.ResolveReference(u)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("cannot resolve %q without a current document", target)
	}
	return u, nil
}

// load performs req, following redirects, and replaces the current document.
func (s *Session) load(req *http.Request, err error) error {
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", resp.Request.URL, err)
	}
	s.url = resp.Request.URL
	s.doc = doc
	clear(s.files)
	return nil
}

// submit sends form the way a browser would, including the submitter's
// name/value pair when it has one.
func (s *Session) submit(form, submitter *goquery.Selection) error {
	action, _ := form.Attr("action")
	target, err := s.resolve(action)
	if err != nil {
		return err
	}
	method := strings.ToUpper(form.AttrOr("method", http.MethodGet))
	multipartForm := strings.EqualFold(form.AttrOr("enctype", ""), "multipart/form-data")

	values := url.Values{}
	files := map[string]string{}
	form.Find("input, textarea, select").Each(func(_ int, field *goquery.Selection) {
		name, ok := field.Attr("name")
		if !ok || name == "" {
			return
		}
		if _, disabled := field.Attr("disabled"); disabled {
			return
		}
		switch goquery.NodeName(field) {
		case "textarea":
			values.Add(name, field.Text())
		case "select":
			values.Add(name, field.Find("option[selected]").First().AttrOr("value", ""))
		default:
			switch strings.ToLower(field.AttrOr("type", "text")) {
			case "file":
				if path, ok := s.files[field.Get(0)]; ok {
					files[name] = path
				}
			case "checkbox", "radio":
				if _, checked := field.Attr("checked"); checked {
					values.Add(name, field.AttrOr("value", "on"))
				}
			case "submit", "button", "image", "reset":
			default:
				values.Add(name, field.AttrOr("value", ""))
			}
		}
	})
	if submitter != nil {
		if name, ok := submitter.Attr("name"); ok && name != "" {
			values.Add(name, submitter.AttrOr("value", ""))
		}
	}

	if method != http.MethodPost {
		target.RawQuery = values.Encode()
		return s.load(http.NewRequest(http.MethodGet, target.String(), nil))
	}
	if !multipartForm {
		req, err := http.NewRequest(http.MethodPost, target.String(), strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		return s.load(req, err)
	}

	body, contentType, err := multipartBody(values, files)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, target.String(), body)
	if err == nil {
		req.Header.Set("Content-Type", contentType)
	}
	return s.load(req, err)
}

func multipartBody(values url.Values, files map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, vals := range values {
		for _, val := range vals {
			if err := writer.WriteField(name, val); err != nil {
				return nil, "", err
			}
		}
	}
	for name, path := range files {
		data, err := os.ReadFile(path) //nolint:gosec // test fixture paths
		if err != nil {
			return nil, "", err
		}
		part, err := writer.CreateFormFile(name, filepath.Base(path))
		if err != nil {
			return nil, "", err
		}
		if _, err = part.Write(data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func notFound(selector string) error {
	return fmt.Errorf("%w: %q", driver.ErrNotFound, selector)
}
