// Package driver opens remote browser sessions and exposes the element
// locator primitives the page objects are built from.
//
// Three backends implement the same [Session] and [Element] contracts:
//
//   - selenium: a W3C WebDriver hub (the default), addressed by URL and a
//     capability [Profile]
//   - rod: a Chrome DevTools endpoint, or a local headless Chromium
//   - playwright: a Playwright browser server, or a locally launched browser
//
// Lookups never wait: a selector that matches nothing fails immediately with
// [ErrNotFound].
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// ErrConnection is returned when a session cannot be established, either
	// because the endpoint is unreachable or it rejects the profile.
	ErrConnection Error = "browser session unavailable"
	// ErrNotFound is returned when a selector matches no element.
	ErrNotFound Error = "element not found"
	// ErrClosed is returned for calls on a session that has already quit.
	ErrClosed Error = "session closed"
)

// Error is an error type returned by the driver implementations.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// DefaultEndpoint is the WebDriver hub address used when none is configured.
const DefaultEndpoint = "http://127.0.0.1:4444/wd/hub"

// DefaultTimeout bounds page loads on backends that support it.
const DefaultTimeout = 30 * time.Second

// Profile names a browser capability profile.
type Profile string

// Supported capability profiles.
const (
	Firefox Profile = "FIREFOX"
	Chrome  Profile = "CHROME"
	Edge    Profile = "EDGE"
	Safari  Profile = "SAFARI"
)

// ParseProfile resolves a profile name case-insensitively. An empty name
// resolves to [Firefox].
func ParseProfile(name string) (Profile, error) {
	switch p := Profile(strings.ToUpper(strings.TrimSpace(name))); p {
	case "":
		return Firefox, nil
	case Firefox, Chrome, Edge, Safari:
		return p, nil
	default:
		return "", fmt.Errorf("unknown browser profile %q", name)
	}
}

// BrowserName returns the WebDriver browserName capability for the profile.
func (p Profile) BrowserName() string {
	switch p {
	case Chrome:
		return "chrome"
	case Edge:
		return "MicrosoftEdge"
	case Safari:
		return "safari"
	default:
		return "firefox"
	}
}

// Chromium reports whether the profile is served by a Chromium engine.
func (p Profile) Chromium() bool {
	return p == Chrome || p == Edge
}

// Backend selects the automation protocol used to reach the browser.
type Backend string

// Supported backends.
const (
	Selenium   Backend = "selenium"
	Rod        Backend = "rod"
	Playwright Backend = "playwright"
)

// ParseBackend resolves a backend name. An empty name resolves to [Selenium].
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case "":
		return Selenium, nil
	case Selenium, Rod, Playwright:
		return b, nil
	default:
		return "", fmt.Errorf("unknown browser backend %q", name)
	}
}

// Options configure [Open].
type Options struct {
	Backend  Backend
	Endpoint string
	Profile  Profile
	Timeout  time.Duration
}

// WithDefaults fills unset fields. Only selenium gets a default endpoint.
func (o Options) WithDefaults() Options {
	if o.Backend == "" {
		o.Backend = Selenium
	}
	if o.Profile == "" {
		o.Profile = Firefox
	}
	if o.Endpoint == "" && o.Backend == Selenium {
		o.Endpoint = DefaultEndpoint
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Session is one live browser connection. It is owned by a single scenario
// and must be released with Quit.
type Session interface {
	// Navigate loads url in the current window.
	Navigate(url string) error
	// Refresh reloads the current document.
	Refresh() error
	// CurrentURL returns the address of the current document.
	CurrentURL() (string, error)
	// Find returns the first element matching the CSS selector, or an
	// [ErrNotFound] error.
	Find(selector string) (Element, error)
	// FindAll returns every element matching the CSS selector.
	FindAll(selector string) ([]Element, error)
	// Quit ends the session. Subsequent calls return nil.
	Quit() error
}

// Element is a resolved element on the current page.
type Element interface {
	Click() error
	// Clear empties a text control.
	Clear() error
	// Type appends text to a text control.
	Type(text string) error
	// Submit submits the form owning the element.
	Submit() error
	// Text returns the rendered text of the element.
	Text() (string, error)
	// Attribute returns the attribute value, or "" when it is absent.
	Attribute(name string) (string, error)
	Find(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
	// Upload selects a local file on a file input.
	Upload(path string) error
}

// Open establishes a session with the configured backend.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Session, error) {
	opts = opts.WithDefaults()
	logger = logger.With(
		slog.String("backend", string(opts.Backend)),
		slog.String("profile", string(opts.Profile)),
	)
	logger.DebugContext(ctx, "opening browser session", slog.String("endpoint", opts.Endpoint))

	var (
		sess Session
		err  error
	)
	switch opts.Backend {
	case Selenium:
		sess, err = openSelenium(ctx, opts)
	case Rod:
		sess, err = openRod(ctx, opts)
	case Playwright:
		sess, err = openPlaywright(ctx, opts)
	default:
		err = fmt.Errorf("unknown browser backend %q", opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return &loggingSession{Session: sess, logger: logger}, nil
}

// notFound wraps [ErrNotFound] with the selector that missed.
func notFound(selector string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, selector)
}

// loggingSession records navigation and teardown at debug level.
type loggingSession struct {
	Session

	logger *slog.Logger
}

func (s *loggingSession) Navigate(url string) error {
	s.logger.Debug("navigate", slog.String("url", url))
	return s.Session.Navigate(url)
}

func (s *loggingSession) Quit() error {
	err := s.Session.Quit()
	if err != nil {
		s.logger.Warn("failed to quit browser session", slog.Any("error", err))
	} else {
		s.logger.Debug("browser session closed")
	}
	return err
}
