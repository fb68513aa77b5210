package pages

import (
	"fmt"

	"github.com/stolasapp/albumtest/internal/driver"
)

// List is a repeated collection on the current page. Items are looked up
// from the live page on every call.
type List[T any] struct {
	root     finder
	selector string
	item     func(driver.Element) T
}

func newList[T any](root finder, selector string, item func(driver.Element) T) List[T] {
	return List[T]{root: root, selector: selector, item: item}
}

// Count returns the number of items currently rendered.
func (l List[T]) Count() (int, error) {
	els, err := l.root.FindAll(l.selector)
	return len(els), err
}

// All returns every item currently rendered, in document order.
func (l List[T]) All() ([]T, error) {
	els, err := l.root.FindAll(l.selector)
	if err != nil {
		return nil, err
	}
	items := make([]T, len(els))
	for i, el := range els {
		items[i] = l.item(el)
	}
	return items, nil
}

// Get returns the item at a 0-based index. An index past the end of the list
// is reported as [driver.ErrNotFound].
func (l List[T]) Get(index int) (T, error) {
	var zero T
	els, err := l.root.FindAll(l.selector)
	if err != nil {
		return zero, err
	}
	if index < 0 || index >= len(els) {
		return zero, fmt.Errorf("%w: %q[%d] of %d", driver.ErrNotFound, l.selector, index, len(els))
	}
	return l.item(els[index]), nil
}

// First returns the first item.
func (l List[T]) First() (T, error) {
	return l.Get(0)
}
