package driver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hubSession = "s1"
	hubElement = "el1"
)

// newFakeHub answers the handful of W3C WebDriver commands a lookup needs.
// Only ".album-item" exists; "#broken" makes the hub fail the lookup.
func newFakeHub(t *testing.T) string {
	t.Helper()

	reply := func(w http.ResponseWriter, status int, value any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"value": value})
	}
	element := map[string]string{"element-6066-11e4-a52e-4f735466cecf": hubElement}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /wd/hub/session", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"sessionId":    hubSession,
			"capabilities": map[string]any{"browserName": "firefox"},
		})
	})
	mux.HandleFunc("POST /wd/hub/session/s1/timeouts", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("DELETE /wd/hub/session/s1", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("POST /wd/hub/session/s1/element", func(w http.ResponseWriter, r *http.Request) {
		var params struct{ Value string }
		_ = json.NewDecoder(r.Body).Decode(&params)
		switch params.Value {
		case ".album-item":
			reply(w, http.StatusOK, element)
		case "#broken":
			reply(w, http.StatusInternalServerError, map[string]string{
				"error":   "unknown error",
				"message": "session crashed",
			})
		default:
			reply(w, http.StatusNotFound, map[string]string{
				"error":   seleniumNoSuchElement,
				"message": "no element matches " + params.Value,
			})
		}
	})
	mux.HandleFunc("POST /wd/hub/session/s1/elements", func(w http.ResponseWriter, r *http.Request) {
		var params struct{ Value string }
		_ = json.NewDecoder(r.Body).Decode(&params)
		if params.Value == ".album-item" {
			reply(w, http.StatusOK, []map[string]string{element})
			return
		}
		reply(w, http.StatusOK, []map[string]string{})
	})
	mux.HandleFunc("GET /wd/hub/session/s1/element/el1/attribute/{name}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("name") {
		case "data-album-id":
			reply(w, http.StatusOK, "7")
		case "data-cover-id":
			reply(w, http.StatusOK, nil)
		default:
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/wd/hub"
}

func openFakeHub(t *testing.T) Session {
	t.Helper()
	sess, err := Open(t.Context(), Options{
		Backend:  Selenium,
		Endpoint: newFakeHub(t),
		Profile:  Firefox,
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Quit() })
	return sess
}

func TestSelenium_Find(t *testing.T) {
	t.Parallel()

	sess := openFakeHub(t)

	el, err := sess.Find(".album-item")
	require.NoError(t, err)
	require.NotNil(t, el)

	_, err = sess.Find(".missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = sess.Find("#broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	els, err := sess.FindAll(".album-item")
	require.NoError(t, err)
	assert.Len(t, els, 1)

	els, err = sess.FindAll(".missing")
	require.NoError(t, err)
	assert.Empty(t, els)
}

func TestSelenium_Attribute(t *testing.T) {
	t.Parallel()

	sess := openFakeHub(t)
	el, err := sess.Find(".album-item")
	require.NoError(t, err)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "data-album-id", want: "7"},
		{name: "data-cover-id", want: ""},
		{name: "data-broken", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := el.Attribute(test.name)
			if test.wantErr {
				require.Error(t, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestSelenium_QuitClosesSession(t *testing.T) {
	t.Parallel()

	sess := openFakeHub(t)
	require.NoError(t, sess.Quit())
	require.NoError(t, sess.Quit())

	_, err := sess.Find(".album-item")
	require.ErrorIs(t, err, ErrClosed)
}
