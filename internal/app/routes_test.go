package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ChristopherBrum/todos-app/internal/config"
	"github.com/ChristopherBrum/todos-app/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{App: config.AppConfig{Env: "test", Version: "v-test"}}
	r, err := NewRouter(cfg, session.NewMemoryStore(time.Hour), nil)
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func (b *browser) xhr(path string) (int, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, nil)
	require.NoError(b.t, err)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthAndVersion(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	code, body := b.get("/health")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, body)

	_, body = b.get("/version")
	assert.JSONEq(t, `{"version":"v-test"}`, body)
}

func TestRootRedirectsToLists(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	code, body := b.get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "No lists yet.")
}

func TestCreateListFlow(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	code, body := b.post("/lists", url.Values{"list_name": {"  Groceries "}})
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "The list has been created.")
	assert.Contains(t, body, "<h2>Groceries</h2>")

	// Flash is shown once.
	_, body = b.get("/lists")
	assert.NotContains(t, body, "The list has been created.")

	code, body = b.post("/lists", url.Values{"list_name": {"Groceries"}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "List name must be unique")

	code, body = b.post("/lists", url.Values{"list_name": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "List name must be between 1 and 100 characters")

	_, body = b.get("/lists")
	assert.Equal(t, 1, strings.Count(body, "<h2>Groceries</h2>"))
}

func TestUnknownListRedirects(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	for _, path := range []string{"/lists/7", "/lists/abc", "/lists/0/edit"} {
		code, body := b.get(path)
		assert.Equal(t, http.StatusOK, code, path)
		assert.Contains(t, body, "The specified list was not found.", path)
	}
}

func TestTodoFlow(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.post("/lists", url.Values{"list_name": {"Groceries"}})

	_, body := b.post("/lists/1/todos", url.Values{"todo": {"Milk"}})
	assert.Contains(t, body, "The todo was added.")
	b.post("/lists/1/todos", url.Values{"todo": {"Eggs"}})

	_, body = b.post("/lists/1/todos/1", url.Values{"completed": {"true"}})
	assert.Contains(t, body, "The todo has been updated.")

	_, body = b.get("/lists")
	assert.Contains(t, body, "1 / 2")

	code, body := b.post("/lists/1/todos", url.Values{"todo": {strings.Repeat("x", 101)}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Todo must be between 1 and 100 characters")

	_, body = b.post("/lists/1/todos/99", url.Values{"completed": {"true"}})
	assert.Contains(t, body, "The specified todo was not found.")

	_, body = b.post("/lists/1/complete_all", nil)
	assert.Contains(t, body, "All todos have been completed.")
	assert.Contains(t, body, `<section id="todos" class="complete">`)

	_, body = b.get("/lists")
	assert.Contains(t, body, "0 / 2")
	assert.Contains(t, body, `<li class="complete">`)
}

func TestRenameList(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.post("/lists", url.Values{"list_name": {"Work"}})
	b.post("/lists", url.Values{"list_name": {"Home"}})

	code, body := b.post("/lists/1", url.Values{"list_name": {"Home"}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "List name must be unique")

	_, body = b.post("/lists/1", url.Values{"list_name": {"Office"}})
	assert.Contains(t, body, "The name has been updated.")
	assert.Contains(t, body, "<h2>Office</h2>")
}

func TestXHRDeletes(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.post("/lists", url.Values{"list_name": {"Groceries"}})
	b.post("/lists/1/todos", url.Values{"todo": {"Milk"}})

	code, _ := b.xhr("/lists/1/todos/1/destroy")
	assert.Equal(t, http.StatusNoContent, code)

	_, body := b.get("/lists")
	assert.Contains(t, body, "0 / 0")

	code, body = b.xhr("/lists/1/destroy")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/lists", body)

	_, body = b.get("/lists")
	assert.Contains(t, body, "The list has been deleted.")
	assert.Contains(t, body, "No lists yet.")
}

func TestDeleteUnknownListIsNoop(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.post("/lists", url.Values{"list_name": {"Groceries"}})

	_, body := b.post("/lists/42/destroy", nil)
	assert.Contains(t, body, "<h2>Groceries</h2>")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := newBrowser(t, srv)
	bob := newBrowser(t, srv)

	alice.post("/lists", url.Values{"list_name": {"Private"}})

	_, body := bob.get("/lists")
	assert.NotContains(t, body, "Private")
	assert.Contains(t, body, "No lists yet.")

	_, body = bob.get("/lists/1")
	assert.Contains(t, body, "The specified list was not found.")
}

func TestNamesAreEscaped(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	_, body := b.post("/lists", url.Values{"list_name": {"<script>x</script>"}})
	assert.NotContains(t, body, "<script>x</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(headerRequestID))
}

type unavailableStore struct {
	*session.MemoryStore
}

func (unavailableStore) Save(ctx context.Context, s *session.Session) error {
	return errors.New("redis: connection refused")
}

func TestCreateListWhenSessionSaveFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := NewRouter(config.Config{}, unavailableStore{session.NewMemoryStore(time.Hour)}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/lists", strings.NewReader("list_name=Groceries"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "The list has been created.")
}

func (b *browser) postRaw(path, body string) (int, string) {
	b.t.Helper()
	resp, err := b.client.Post(b.base+path, "application/x-www-form-urlencoded", strings.NewReader(body))
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func TestSetTodoCompletedForm(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.post("/lists", url.Values{"list_name": {"Groceries"}})
	b.post("/lists/1/todos", url.Values{"todo": {"Milk"}})
	b.post("/lists/1/todos/1", url.Values{"completed": {"true"}})

	code, _ := b.postRaw("/lists/1/todos/1", "completed=%zz")
	assert.Equal(t, http.StatusBadRequest, code)

	_, body := b.get("/lists")
	assert.Contains(t, body, "0 / 1", "malformed body must not change the todo")

	_, body = b.postRaw("/lists/1/todos/1", "")
	assert.Contains(t, body, "The todo has been updated.")

	_, body = b.get("/lists")
	assert.Contains(t, body, "1 / 1", "missing flag means not completed")
}
