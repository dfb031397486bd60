package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/jirash/internal/config"
	"github.com/rileyhilliard/jirash/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// recordedRequest is a request seen by the fake JIRA server.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   string
}

// testEnv runs commands against a fake JIRA server with buffered I/O.
type testEnv struct {
	t      *testing.T
	app    *app
	out    *bytes.Buffer
	errOut *bytes.Buffer
	url    string

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

// testNow is the clock used by test apps.
var testNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		t:      t,
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		routes: map[string]http.HandlerFunc{},
	}
	srv := httptest.NewServer(http.HandlerFunc(e.serve))
	t.Cleanup(srv.Close)
	e.url = srv.URL

	path := filepath.Join(t.TempDir(), "jirash.json")
	cfgJSON := fmt.Sprintf(`{"jira_url": %q, "jira_username": "bob", "jira_password": "s3cret"}`, srv.URL)
	require.NoError(t, os.WriteFile(path, []byte(cfgJSON), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	e.app = &app{
		cfg:    cfg,
		log:    logger.Noop(),
		in:     strings.NewReader(""),
		out:    e.out,
		errOut: e.errOut,
		confirm: func(title string) (bool, error) {
			t.Fatalf("unexpected confirmation prompt %q", title)
			return false, nil
		},
		now: func() time.Time { return testNow },
	}
	return e
}

func (e *testEnv) serve(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	e.mu.Lock()
	e.requests = append(e.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   string(body),
	})
	h, ok := e.routes[req.Method+" "+req.URL.Path]
	e.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errorMessages":["no route"],"errors":{}}`)
		return
	}
	h(w, req)
}

// json serves body as JSON for "METHOD /path".
func (e *testEnv) json(route string, status int, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// handle installs a custom handler for "METHOD /path".
func (e *testEnv) handle(route string, h http.HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routes[route] = h
}

// requestsTo returns the recorded requests for "METHOD /path".
func (e *testEnv) requestsTo(route string) []recordedRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []recordedRequest
	for _, r := range e.requests {
		if r.Method+" "+r.Path == route {
			out = append(out, r)
		}
	}
	return out
}

// lastBody decodes the body of the last request to route.
func (e *testEnv) lastBody(route string) map[string]interface{} {
	e.t.Helper()
	reqs := e.requestsTo(route)
	require.NotEmpty(e.t, reqs, "no request to %s", route)
	var v map[string]interface{}
	require.NoError(e.t, json.Unmarshal([]byte(reqs[len(reqs)-1].Body), &v))
	return v
}

// run executes the jirash command line with the test app.
func (e *testEnv) run(args ...string) error {
	e.t.Helper()
	resetCommands(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(e.out)
	rootCmd.SetErr(e.errOut)
	return rootCmd.ExecuteContext(withApp(context.Background(), e.app))
}

// resetCommands restores every flag to its default and drops the contexts
// cobra keeps on commands between executions.
func resetCommands(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	//nolint:staticcheck // cobra only inherits the root context into a nil one
	cmd.SetContext(nil)
	for _, sub := range cmd.Commands() {
		resetCommands(sub)
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
