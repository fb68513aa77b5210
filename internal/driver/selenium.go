package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/tebeka/selenium"
)

const (
	// seleniumNoSuchElement is the W3C error code for a failed lookup.
	seleniumNoSuchElement = "no such element"
	// seleniumNilValue is how the client reports a JSON null string reply.
	seleniumNilValue = "nil return value"
)

func openSelenium(ctx context.Context, opts Options) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	caps := selenium.Capabilities{"browserName": opts.Profile.BrowserName()}
	wd, err := selenium.NewRemote(caps, opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create session at %s: %w", opts.Endpoint, err)
	}
	if err = wd.SetPageLoadTimeout(opts.Timeout); err != nil {
		return nil, errors.Join(err, wd.Quit())
	}
	return &seleniumSession{wd: wd}, nil
}

type seleniumSession struct {
	wd     selenium.WebDriver
	closed bool
}

func (s *seleniumSession) Navigate(url string) error {
	if s.closed {
		return ErrClosed
	}
	return s.wd.Get(url)
}

func (s *seleniumSession) Refresh() error {
	if s.closed {
		return ErrClosed
	}
	return s.wd.Refresh()
}

func (s *seleniumSession) CurrentURL() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	return s.wd.CurrentURL()
}

func (s *seleniumSession) Find(selector string) (Element, error) {
	if s.closed {
		return nil, ErrClosed
	}
	el, err := s.wd.FindElement(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, seleniumLookupError(selector, err)
	}
	return seleniumElement{el: el}, nil
}

func (s *seleniumSession) FindAll(selector string) ([]Element, error) {
	if s.closed {
		return nil, ErrClosed
	}
	els, err := s.wd.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, seleniumLookupError(selector, err)
	}
	return wrapSelenium(els), nil
}

func (s *seleniumSession) Quit() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.wd.Quit()
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e seleniumElement) Click() error           { return e.el.Click() }
func (e seleniumElement) Clear() error           { return e.el.Clear() }
func (e seleniumElement) Type(text string) error { return e.el.SendKeys(text) }
func (e seleniumElement) Submit() error          { return e.el.Submit() }
func (e seleniumElement) Text() (string, error)  { return e.el.Text() }

// Upload relies on the hub sharing a filesystem with this process, which
// holds for a local grid.
func (e seleniumElement) Upload(path string) error { return e.el.SendKeys(path) }

func (e seleniumElement) Attribute(name string) (string, error) {
	val, err := e.el.GetAttribute(name)
	if err != nil {
		// absent attributes come back as null
		if err.Error() == seleniumNilValue {
			return "", nil
		}
		return "", fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	return val, nil
}

func (e seleniumElement) Find(selector string) (Element, error) {
	el, err := e.el.FindElement(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, seleniumLookupError(selector, err)
	}
	return seleniumElement{el: el}, nil
}

func (e seleniumElement) FindAll(selector string) ([]Element, error) {
	els, err := e.el.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, seleniumLookupError(selector, err)
	}
	return wrapSelenium(els), nil
}

func wrapSelenium(els []selenium.WebElement) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = seleniumElement{el: el}
	}
	return out
}

func seleniumLookupError(selector string, err error) error {
	var serr *selenium.Error
	if errors.As(err, &serr) && serr.Err == seleniumNoSuchElement {
		return notFound(selector)
	}
	return fmt.Errorf("failed to find %q: %w", selector, err)
}
