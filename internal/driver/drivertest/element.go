package drivertest

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/stolasapp/albumtest/internal/driver"
)

type element struct {
	session *Session
	doc     *goquery.Document
	sel     *goquery.Selection
}

var _ driver.Element = (*element)(nil)

func (e *element) live() error {
	if e.session.closed {
		return driver.ErrClosed
	}
	if e.doc != e.session.doc {
		return ErrStale
	}
	return nil
}

func (e *element) Click() error {
	if err := e.live(); err != nil {
		return err
	}
	switch goquery.NodeName(e.sel) {
	case "summary":
		details := e.sel.Parent()
		if _, open := details.Attr("open"); open {
			details.RemoveAttr("open")
		} else {
			details.SetAttr("open", "")
		}
		return nil
	case "button":
		if strings.EqualFold(e.sel.AttrOr("type", "submit"), "submit") {
			return e.submitOwner()
		}
		return nil
	case "input":
		if strings.EqualFold(e.sel.AttrOr("type", ""), "submit") {
			return e.submitOwner()
		}
		return nil
	}

	link := e.sel.Closest("a[href]")
	if link.Length() == 0 {
		return nil
	}
	href, _ := link.Attr("href")
	if strings.HasPrefix(href, "#") {
		// fragment targets only change styling
		return nil
	}
	return e.session.Navigate(href)
}

func (e *element) submitOwner() error {
	form := e.sel.Closest("form")
	if form.Length() == 0 {
		return nil
	}
	return e.session.submit(form, e.sel)
}

func (e *element) Clear() error {
	if err := e.live(); err != nil {
		return err
	}
	if goquery.NodeName(e.sel) == "textarea" {
		e.sel.SetText("")
	} else {
		e.sel.SetAttr("value", "")
	}
	return nil
}

func (e *element) Type(text string) error {
	if err := e.live(); err != nil {
		return err
	}
	if goquery.NodeName(e.sel) == "textarea" {
		e.sel.SetText(e.sel.Text() + text)
	} else {
		e.sel.SetAttr("value", e.sel.AttrOr("value", "")+text)
	}
	return nil
}

func (e *element) Submit() error {
	if err := e.live(); err != nil {
		return err
	}
	form := e.sel
	if goquery.NodeName(form) != "form" {
		form = e.sel.Closest("form")
	}
	if form.Length() == 0 {
		return errors.New("element is not in a form")
	}
	return e.session.submit(form, nil)
}

// Text returns the element's text with whitespace runs collapsed, which
// approximates rendered text for the markup under test.
func (e *element) Text() (string, error) {
	if err := e.live(); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(e.sel.Text()), " "), nil
}

func (e *element) Attribute(name string) (string, error) {
	if err := e.live(); err != nil {
		return "", err
	}
	return e.sel.AttrOr(name, ""), nil
}

func (e *element) Find(selector string) (driver.Element, error) {
	if err := e.live(); err != nil {
		return nil, err
	}
	return e.session.first(e.sel, selector)
}

func (e *element) FindAll(selector string) ([]driver.Element, error) {
	if err := e.live(); err != nil {
		return nil, err
	}
	return e.session.all(e.sel, selector), nil
}

func (e *element) Upload(path string) error {
	if err := e.live(); err != nil {
		return err
	}
	if goquery.NodeName(e.sel) != "input" || !strings.EqualFold(e.sel.AttrOr("type", ""), "file") {
		return errors.New("element is not a file input")
	}
	e.session.files[e.sel.Get(0)] = path
	return nil
}
