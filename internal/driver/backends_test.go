package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRodLookupError(t *testing.T) {
	t.Parallel()

	err := rodLookupError(".album-item", fmt.Errorf("query: %w", &rod.ElementNotFoundError{}))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `".album-item"`)

	cause := errors.New("websocket closed")
	err = rodLookupError(".album-item", cause)
	require.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// pwLocator renames the embedded interface so its field does not collide with
// the Locator method it promotes.
type pwLocator interface{ playwright.Locator }

// countLocator answers Count and First; every other Locator method is unset.
type countLocator struct {
	pwLocator

	count int
	err   error
}

func (l countLocator) Count() (int, error) { return l.count, l.err }

func (l countLocator) First() playwright.Locator { return l }

func (l countLocator) Nth(int) playwright.Locator { return l }

func TestPlaywrightFirst(t *testing.T) {
	t.Parallel()

	sess := &playwrightSession{}

	t.Run("match", func(t *testing.T) {
		t.Parallel()
		el, err := sess.first(countLocator{count: 2}, ".album-item")
		require.NoError(t, err)
		assert.NotNil(t, el)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, err := sess.first(countLocator{}, ".album-item")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("count fails", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("target closed")
		_, err := sess.first(countLocator{err: cause}, ".album-item")
		require.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("all", func(t *testing.T) {
		t.Parallel()
		els, err := sess.all(countLocator{count: 3})
		require.NoError(t, err)
		assert.Len(t, els, 3)

		els, err = sess.all(countLocator{})
		require.NoError(t, err)
		assert.Empty(t, els)
	})
}
