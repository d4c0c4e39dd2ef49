package api

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/techquiz/internal/db"
	"github.com/vytor/techquiz/internal/quiz"
	"github.com/vytor/techquiz/internal/repository/sqlite"
	"github.com/vytor/techquiz/internal/services"
	"github.com/vytor/techquiz/internal/testutil"
	"github.com/vytor/techquiz/internal/worker"
)

// inlineRunner runs fetch jobs synchronously so a start is fully loaded by
// the time the request returns.
type inlineRunner struct{}

func (inlineRunner) Submit(job worker.Job) error {
	_ = job.Run(context.Background())
	return nil
}

// rejectingRunner refuses every job, as a saturated fetch pool does.
type rejectingRunner struct{}

func (rejectingRunner) Submit(worker.Job) error { return worker.ErrQueueFull }

type testEnv struct {
	server *Server
	db     *db.DB
	http   *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T, source quiz.Source, runner quiz.Runner) *testEnv {
	t.Helper()

	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	database := testutil.NewTestDB(t)
	registry := quiz.NewRegistry(func() *quiz.Controller {
		return quiz.NewController(source, quiz.WithRunner(runner))
	})
	t.Cleanup(registry.Close)

	s := &Server{
		DB:              database,
		Registry:        registry,
		QuestionService: services.NewQuestionService(sqlite.NewQuestionRepository(database.DB), 5),
		Templates:       tmpl,
	}
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server: s,
		db:     database,
		http:   ts,
		client: &http.Client{Jar: jar},
	}
}

func (e *testEnv) get(t *testing.T, path string, jsonAccept bool) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.http.URL+path, nil)
	require.NoError(t, err)
	if jsonAccept {
		req.Header.Set("Accept", "application/json")
	}
	return e.do(t, req)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.http.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

func (e *testEnv) postJSON(t *testing.T, path, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.http.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.do(t, req)
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) viewCookie(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(e.http.URL)
	require.NoError(t, err)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == viewCookieName {
			return c.Value
		}
	}
	return ""
}
