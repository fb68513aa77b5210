package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

func openPlaywright(ctx context.Context, opts Options) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright driver: %w", err)
	}

	var browserType playwright.BrowserType
	switch {
	case opts.Profile == Firefox:
		browserType = pw.Firefox
	case opts.Profile == Safari:
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	var browser playwright.Browser
	if opts.Endpoint == "" {
		browser, err = browserType.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(true),
		})
	} else {
		browser, err = browserType.Connect(opts.Endpoint)
	}
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to open %s browser: %w", browserType.Name(), err),
			pw.Stop(),
		)
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, errors.Join(err, browser.Close(), pw.Stop())
	}
	page.SetDefaultNavigationTimeout(float64(opts.Timeout.Milliseconds()))
	return &playwrightSession{pw: pw, browser: browser, page: page}, nil
}

type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	closed  bool
}

func (s *playwrightSession) Navigate(url string) error {
	if s.closed {
		return ErrClosed
	}
	_, err := s.page.Goto(url)
	return err
}

func (s *playwrightSession) Refresh() error {
	if s.closed {
		return ErrClosed
	}
	_, err := s.page.Reload()
	return err
}

func (s *playwrightSession) CurrentURL() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	return s.page.URL(), nil
}

func (s *playwrightSession) Find(selector string) (Element, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.first(s.page.Locator(selector), selector)
}

func (s *playwrightSession) FindAll(selector string) ([]Element, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.all(s.page.Locator(selector))
}

func (s *playwrightSession) Quit() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.browser.Close(), s.pw.Stop())
}

// first resolves the first match of loc without waiting for it to appear.
func (s *playwrightSession) first(loc playwright.Locator, selector string) (Element, error) {
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to find %q: %w", selector, err)
	}
	if count == 0 {
		return nil, notFound(selector)
	}
	return playwrightElement{loc: loc.First(), session: s}, nil
}

func (s *playwrightSession) all(loc playwright.Locator) ([]Element, error) {
	count, err := loc.Count()
	if err != nil {
		return nil, err
	}
	out := make([]Element, count)
	for i := range count {
		out[i] = playwrightElement{loc: loc.Nth(i), session: s}
	}
	return out, nil
}

type playwrightElement struct {
	loc     playwright.Locator
	session *playwrightSession
}

func (e playwrightElement) Click() error {
	if err := e.loc.Click(); err != nil {
		return err
	}
	return e.session.page.WaitForLoadState()
}

func (e playwrightElement) Clear() error { return e.loc.Fill("") }

func (e playwrightElement) Type(text string) error { return e.loc.PressSequentially(text) }

func (e playwrightElement) Submit() error {
	const js = `el => { const f = el.form || el; f.requestSubmit ? f.requestSubmit() : f.submit(); }`
	if _, err := e.loc.Evaluate(js, nil); err != nil {
		return err
	}
	return e.session.page.WaitForLoadState()
}

func (e playwrightElement) Text() (string, error) { return e.loc.InnerText() }

func (e playwrightElement) Attribute(name string) (string, error) {
	return e.loc.GetAttribute(name)
}

func (e playwrightElement) Find(selector string) (Element, error) {
	return e.session.first(e.loc.Locator(selector), selector)
}

func (e playwrightElement) FindAll(selector string) ([]Element, error) {
	return e.session.all(e.loc.Locator(selector))
}

func (e playwrightElement) Upload(path string) error {
	return e.loc.SetInputFiles(path)
}
