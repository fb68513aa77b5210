package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// rodSettle is how long the DOM must stay unchanged after an action before
// the action is considered complete.
const rodSettle = 300 * time.Millisecond

// submitJS submits the form that owns the element, or the element itself
// when it is a form.
const submitJS = `function () {
	const form = this.form || this;
	if (form.requestSubmit) { form.requestSubmit(); } else { form.submit(); }
}`

func openRod(ctx context.Context, opts Options) (Session, error) {
	if !opts.Profile.Chromium() {
		return nil, fmt.Errorf("rod backend cannot drive profile %s", opts.Profile)
	}

	var (
		controlURL string
		local      *launcher.Launcher
		err        error
	)
	if opts.Endpoint == "" {
		local = launcher.New().Context(ctx).Headless(true).Set("no-sandbox")
		if path, found := launcher.LookPath(); found {
			local = local.Bin(path)
		}
		if controlURL, err = local.Launch(); err != nil {
			return nil, fmt.Errorf("failed to launch local browser: %w", err)
		}
	} else if controlURL, err = launcher.ResolveURL(opts.Endpoint); err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.Endpoint, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err = browser.Connect(); err != nil {
		killLauncher(local)
		return nil, fmt.Errorf("failed to connect to %s: %w", controlURL, err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		killLauncher(local)
		return nil, errors.Join(err, browser.Close())
	}
	return &rodSession{
		browser:  browser,
		page:     page,
		launcher: local,
		timeout:  opts.Timeout,
	}, nil
}

func killLauncher(l *launcher.Launcher) {
	if l != nil {
		l.Kill()
	}
}

type rodSession struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	timeout  time.Duration
	closed   bool
}

// settle waits for the page to finish loading and stop mutating.
func (s *rodSession) settle() error {
	return s.page.Timeout(s.timeout).WaitStable(rodSettle)
}

func (s *rodSession) Navigate(url string) error {
	if s.closed {
		return ErrClosed
	}
	page := s.page.Timeout(s.timeout)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (s *rodSession) Refresh() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.page.Timeout(s.timeout).Reload(); err != nil {
		return err
	}
	return s.settle()
}

func (s *rodSession) CurrentURL() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	info, err := s.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (s *rodSession) Find(selector string) (Element, error) {
	if s.closed {
		return nil, ErrClosed
	}
	el, err := s.page.Sleeper(rod.NotFoundSleeper).Element(selector)
	if err != nil {
		return nil, rodLookupError(selector, err)
	}
	return rodElement{el: el, session: s}, nil
}

func (s *rodSession) FindAll(selector string) ([]Element, error) {
	if s.closed {
		return nil, ErrClosed
	}
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, rodLookupError(selector, err)
	}
	return s.wrap(els), nil
}

func (s *rodSession) Quit() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.browser.Close()
	killLauncher(s.launcher)
	return err
}

func (s *rodSession) wrap(els rod.Elements) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = rodElement{el: el, session: s}
	}
	return out
}

type rodElement struct {
	el      *rod.Element
	session *rodSession
}

func (e rodElement) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	return e.session.settle()
}

func (e rodElement) Clear() error {
	if err := e.el.SelectAllText(); err != nil {
		return err
	}
	return e.el.Input("")
}

func (e rodElement) Type(text string) error { return e.el.Input(text) }

func (e rodElement) Submit() error {
	if _, err := e.el.Eval(submitJS); err != nil {
		return err
	}
	return e.session.settle()
}

func (e rodElement) Text() (string, error) { return e.el.Text() }

func (e rodElement) Attribute(name string) (string, error) {
	val, err := e.el.Attribute(name)
	if err != nil || val == nil {
		return "", err
	}
	return *val, nil
}

func (e rodElement) Find(selector string) (Element, error) {
	el, err := e.el.Sleeper(rod.NotFoundSleeper).Element(selector)
	if err != nil {
		return nil, rodLookupError(selector, err)
	}
	return rodElement{el: el, session: e.session}, nil
}

func (e rodElement) FindAll(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, rodLookupError(selector, err)
	}
	return e.session.wrap(els), nil
}

func (e rodElement) Upload(path string) error {
	return e.el.SetFiles([]string{path})
}

func rodLookupError(selector string, err error) error {
	var nf *rod.ElementNotFoundError
	if errors.As(err, &nf) {
		return notFound(selector)
	}
	return fmt.Errorf("failed to find %q: %w", selector, err)
}
