package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const favouriteFilters = `[
	{"id": "10", "name": "My Open Bugs", "jql": "assignee = currentUser() AND resolution = Unresolved"},
	{"id": "11", "name": "Triage", "jql": "project = FOO AND status = New"},
	{"id": "12", "name": "Triage Later", "jql": "project = FOO AND labels = later"}
]`

const searchResults = `{
	"startAt": 0,
	"maxResults": 50,
	"total": 2,
	"issues": [
		{"key": "FOO-1", "fields": {
			"summary": "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRST",
			"components": [{"name": "api"}, {"name": "cli"}],
			"reporter": {"name": "alice"},
			"assignee": {"name": "bob"},
			"priority": {"name": "Major"},
			"status": {"name": "In Progress"},
			"created": "2024-01-02T03:04:05.000+0000",
			"updated": "2024-02-03T03:04:05.000+0000"
		}},
		{"key": "FOO-2", "fields": {
			"summary": "Short one",
			"components": [],
			"reporter": {"name": "alice"},
			"assignee": null,
			"priority": {"name": "Blocker"},
			"status": {"name": "Open"},
			"created": "2024-01-05T00:00:00.000+0000",
			"updated": "2024-01-06T00:00:00.000+0000"
		}}
	]
}`

func newIssueListEnv(t *testing.T) *testEnv {
	env := newTestEnv(t)
	env.json("GET /rest/api/2/filter/favourite", 200, favouriteFilters)
	env.json("GET /rest/api/2/search", 200, searchResults)
	return env
}

func TestIssueList_DefaultTable(t *testing.T) {
	env := newIssueListEnv(t)

	require.NoError(t, env.run("issue", "list", "my open"))

	want := "KEY    SHORTSUMMARY                              COMPONENTS  ASSIGNEE  P  STAT  CREATED     UPDATED\n" +
		"FOO-1  abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLM…  api,cli     bob       M  In P  2024-01-02  2024-02-03\n" +
		"FOO-2  Short one                                 -           -         B  Open  2024-01-05  2024-01-06\n"
	assert.Equal(t, want, env.out.String())

	reqs := env.requestsTo("GET /rest/api/2/search")
	require.Len(t, reqs, 1)
	assert.Equal(t, "assignee = currentUser() AND resolution = Unresolved", reqs[0].Query["jql"][0])
	assert.Equal(t, "summary,components,reporter,assignee,priority,status,created,updated", reqs[0].Query["fields"][0])
	assert.Equal(t, "0", reqs[0].Query["startAt"][0])
}

func TestIssueList_ShortNoHeader(t *testing.T) {
	env := newIssueListEnv(t)

	require.NoError(t, env.run("issues", "-S", "-H", "My Open Bugs"))

	want := "FOO-1  abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRST\n" +
		"FOO-2  Short one\n"
	assert.Equal(t, want, env.out.String())
}

func TestIssueList_ByFilterID(t *testing.T) {
	env := newTestEnv(t)
	env.json("GET /rest/api/2/filter/42", 200, `{"id":"42","name":"Mine","jql":"reporter = bob"}`)
	env.json("GET /rest/api/2/search", 200, searchResults)

	require.NoError(t, env.run("issue", "ls", "-o", "key,reporter", "-s", "-key", "42"))

	assert.Equal(t, "KEY    REPORTER\nFOO-2  alice\nFOO-1  alice\n", env.out.String())
	assert.Empty(t, env.requestsTo("GET /rest/api/2/filter/favourite"))

	reqs := env.requestsTo("GET /rest/api/2/search")
	require.Len(t, reqs, 1)
	assert.Equal(t, "reporter = bob", reqs[0].Query["jql"][0])
	assert.Empty(t, reqs[0].Query["fields"], "-o requests every field")
}

func TestIssueList_LongFields(t *testing.T) {
	env := newIssueListEnv(t)

	require.NoError(t, env.run("issue", "list", "-l", "-o", "key,type", "Triage Later"))

	reqs := env.requestsTo("GET /rest/api/2/search")
	require.Len(t, reqs, 1)
	assert.Equal(t, "project = FOO AND labels = later", reqs[0].Query["jql"][0])
	assert.Equal(t, "summary,components,reporter,assignee,priority,issuetype,status,created,updated,resolutiondate",
		reqs[0].Query["fields"][0])
}

func TestIssueList_JSONStream(t *testing.T) {
	env := newIssueListEnv(t)

	require.NoError(t, env.run("issue", "list", "-j", "Triage"))

	lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
	require.Len(t, lines, 2)
	for i, key := range []string{"FOO-1", "FOO-2"} {
		var obj map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &obj))
		assert.Equal(t, key, obj["key"])
		assert.NotContains(t, obj, "shortSummary", "JSON output is the raw issue")
	}

	reqs := env.requestsTo("GET /rest/api/2/search")
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Query["fields"])
}

func TestIssueList_PagesThroughResults(t *testing.T) {
	env := newTestEnv(t)
	env.json("GET /rest/api/2/filter/7", 200, `{"id":"7","name":"All","jql":"project = FOO"}`)
	pages := map[string]string{
		"0": `{"startAt":0,"maxResults":1,"total":2,"issues":[{"key":"FOO-1","fields":{"summary":"one"}}]}`,
		"1": `{"startAt":1,"maxResults":1,"total":2,"issues":[{"key":"FOO-2","fields":{"summary":"two"}}]}`,
	}
	env.handle("GET /rest/api/2/search", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, pages[req.URL.Query().Get("startAt")])
	})

	require.NoError(t, env.run("issue", "list", "-H", "-o", "key,summary", "7"))

	assert.Equal(t, "FOO-1  one\nFOO-2  two\n", env.out.String())
	assert.Len(t, env.requestsTo("GET /rest/api/2/search"), 2)
}

func TestIssueList_AmbiguousFilter(t *testing.T) {
	env := newIssueListEnv(t)

	err := env.run("issue", "list", "triage")
	// "triage" is an exact case-insensitive match for "Triage".
	require.NoError(t, err)

	env.out.Reset()
	err = env.run("issue", "list", "i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is ambiguous")
}

func TestShortSummary(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"exactly forty characters long, yes it is", "exactly forty characters long, yes it is"},
		{"this summary is more than forty characters long", "this summary is more than forty charact…"},
		{"ünïcödé is counted by rune, not by byte, ok", "ünïcödé is counted by rune, not by byte…"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, shortSummary(tt.in))
		})
	}
}
