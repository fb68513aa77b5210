package drivertest

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/albumtest/internal/driver"
)

const formPage = `<!DOCTYPE html><html><body>
<a id="next" href="/next"><span>Next</span></a>
<a id="frag" href="#modal">Open</a>
<details id="menu"><summary>Menu</summary><a href="/next">Go</a></details>
<form id="f" method="post" action="/echo">
  <input name="login" value="old">
  <input type="hidden" name="token" value="t1">
  <textarea name="note">  </textarea>
  <input type="checkbox" name="unchecked" value="x">
  <button type="submit" name="op" value="save">Save</button>
</form>
<form id="u" method="post" action="/upload" enctype="multipart/form-data">
  <input type="file" name="photo"><button type="submit">Upload</button>
</form>
<ul><li class="i">one</li><li class="i">  two
  lines </li></ul>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, formPage)
	})
	mux.HandleFunc("GET /next", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html><body><h1>next</h1></body></html>`)
	})
	mux.HandleFunc("POST /echo", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		http.SetCookie(w, &http.Cookie{Name: "seen", Value: "1", Path: "/"})
		http.Redirect(w, r, "/result?"+r.PostForm.Encode(), http.StatusSeeOther)
	})
	mux.HandleFunc("GET /result", func(w http.ResponseWriter, r *http.Request) {
		cookie, _ := r.Cookie("seen")
		_, _ = fmt.Fprintf(w, `<html><body><p id="q">%s</p><p id="c">%v</p></body></html>`,
			html.EscapeString(r.URL.RawQuery), cookie != nil)
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("photo")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		_, _ = fmt.Fprintf(w, `<html><body><p id="name">%s</p><p id="size">%d</p></body></html>`,
			header.Filename, len(data))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_NavigateAndFind(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	sess := New()
	t.Cleanup(func() { _ = sess.Quit() })

	require.NoError(t, sess.Navigate(srv.URL+"/"))

	items, err := sess.FindAll("li.i")
	require.NoError(t, err)
	require.Len(t, items, 2)
	txt, err := items[1].Text()
	require.NoError(t, err)
	assert.Equal(t, "two lines", txt)

	_, err = sess.Find(".missing")
	require.ErrorIs(t, err, driver.ErrNotFound)

	missing, err := sess.FindAll(".missing")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSession_ClickFollowsLinks(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	sess := New()
	require.NoError(t, sess.Navigate(srv.URL+"/"))

	frag, err := sess.Find("#frag")
	require.NoError(t, err)
	require.NoError(t, frag.Click())
	cur, err := sess.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/", cur, "fragment links stay on the page")

	summary, err := sess.Find("#menu > summary")
	require.NoError(t, err)
	require.NoError(t, summary.Click())
	assert.Contains(t, sess.HTML(), `<details id="menu" open="">`)

	span, err := sess.Find("#next span")
	require.NoError(t, err)
	require.NoError(t, span.Click())
	cur, err = sess.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/next", cur)

	// the old element belongs to the previous document
	require.ErrorIs(t, span.Click(), ErrStale)
}

func TestSession_SubmitForm(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	sess := New()
	require.NoError(t, sess.Navigate(srv.URL+"/"))

	login, err := sess.Find("#f input[name='login']")
	require.NoError(t, err)
	require.NoError(t, login.Clear())
	require.NoError(t, login.Type("alice"))

	note, err := sess.Find("#f textarea")
	require.NoError(t, err)
	require.NoError(t, note.Clear())
	require.NoError(t, note.Type("hi"))

	btn, err := sess.Find("#f button")
	require.NoError(t, err)
	require.NoError(t, btn.Click())

	q, err := sess.Find("#q")
	require.NoError(t, err)
	got, err := q.Text()
	require.NoError(t, err)
	assert.Equal(t, "login=alice&note=hi&op=save&token=t1", got)

	// cookies set during the redirect are kept
	require.NoError(t, sess.Refresh())
	c, err := sess.Find("#c")
	require.NoError(t, err)
	got, err = c.Text()
	require.NoError(t, err)
	assert.Equal(t, "true", got)
}

func TestSession_Upload(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	path := filepath.Join(t.TempDir(), "pic.jpg")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o600))

	sess := New()
	require.NoError(t, sess.Navigate(srv.URL+"/"))

	input, err := sess.Find("#u input[type='file']")
	require.NoError(t, err)
	require.NoError(t, input.Upload(path))

	form, err := sess.Find("#u")
	require.NoError(t, err)
	require.NoError(t, form.Submit())

	name, err := sess.Find("#name")
	require.NoError(t, err)
	got, err := name.Text()
	require.NoError(t, err)
	assert.Equal(t, "pic.jpg", got)

	size, err := sess.Find("#size")
	require.NoError(t, err)
	got, err = size.Text()
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func TestSession_Quit(t *testing.T) {
	t.Parallel()

	sess := New()
	require.NoError(t, sess.Quit())
	require.NoError(t, sess.Quit())
	require.ErrorIs(t, sess.Navigate("http://127.0.0.1/"), driver.ErrClosed)
}

func TestSession_Cache(t *testing.T) {
	t.Parallel()

	var fresh, dynamic atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /fresh", func(w http.ResponseWriter, _ *http.Request) {
		n := fresh.Add(1)
		w.Header().Set("Cache-Control", "private, max-age=60")
		_, _ = fmt.Fprintf(w, `<html><body><p id="n">%d</p></body></html>`, n)
	})
	mux.HandleFunc("GET /dynamic", func(w http.ResponseWriter, _ *http.Request) {
		n := dynamic.Add(1)
		_, _ = fmt.Fprintf(w, `<html><body><p id="n">%d</p></body></html>`, n)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sess := New()
	t.Cleanup(func() { _ = sess.Quit() })

	counter := func() string {
		t.Helper()
		el, err := sess.Find("#n")
		require.NoError(t, err)
		text, err := el.Text()
		require.NoError(t, err)
		return text
	}

	require.NoError(t, sess.Navigate(srv.URL+"/fresh"))
	require.NoError(t, sess.Navigate(srv.URL+"/fresh"))
	assert.Equal(t, "1", counter(), "fresh copy comes from the cache")
	assert.Equal(t, int32(1), fresh.Load())

	require.NoError(t, sess.Refresh())
	assert.Equal(t, "2", counter(), "reload revalidates")

	require.NoError(t, sess.Navigate(srv.URL+"/dynamic"))
	require.NoError(t, sess.Navigate(srv.URL+"/dynamic"))
	assert.Equal(t, "2", counter(), "uncacheable pages are refetched")
}
