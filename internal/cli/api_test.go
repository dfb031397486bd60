package cli

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_Get(t *testing.T) {
	env := newTestEnv(t)
	env.json("GET /rest/api/2/myself", 200, `{"name":"bob","active":true}`)

	require.NoError(t, env.run("api", "myself"))

	assert.Equal(t, "{\n    \"name\": \"bob\",\n    \"active\": true\n}\n", env.out.String())
	assert.Empty(t, env.errOut.String())

	reqs := env.requestsTo("GET /rest/api/2/myself")
	require.Len(t, reqs, 1)
	user, pass, ok := (&http.Request{Header: reqs[0].Header}).BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "bob", user)
	assert.Equal(t, "s3cret", pass)
}

func TestAPI_DataDefaultsToPut(t *testing.T) {
	env := newTestEnv(t)
	env.json("PUT /rest/api/2/issue/FOO-1", 204, "")

	require.NoError(t, env.run("api", "-d", `{"fields":{"summary":"new"}}`, "/issue/FOO-1"))

	assert.Empty(t, env.out.String())
	reqs := env.requestsTo("PUT /rest/api/2/issue/FOO-1")
	require.Len(t, reqs, 1)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
	assert.JSONEq(t, `{"fields":{"summary":"new"}}`, reqs[0].Body)
}

func TestAPI_MethodAndHeaders(t *testing.T) {
	env := newTestEnv(t)
	env.handle("POST /rest/api/2/issue/FOO-1/comment", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Request-Id", "abc")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "created")
	})

	require.NoError(t, env.run("api", "-X", "post", "-H", "X-Trace: 1", "-H", "Accept: text/plain",
		"-i", "-d", `{"body":"hi"}`, "/issue/FOO-1/comment"))

	assert.Equal(t, "created\n", env.out.String())
	head := env.errOut.String()
	assert.Contains(t, head, "HTTP/1.1 201 Created\n")
	assert.Contains(t, head, "Content-Type: text/plain\n")
	assert.Contains(t, head, "X-Request-Id: abc\n")
	assert.Less(t, strings.Index(head, "Content-Type"), strings.Index(head, "X-Request-Id"), "headers are sorted")

	reqs := env.requestsTo("POST /rest/api/2/issue/FOO-1/comment")
	require.Len(t, reqs, 1)
	assert.Equal(t, "1", reqs[0].Header.Get("X-Trace"))
	assert.Equal(t, "text/plain", reqs[0].Header.Get("Accept"))
}

func TestAPI_Head(t *testing.T) {
	env := newTestEnv(t)
	env.json("HEAD /rest/api/2/issue/FOO-1", 200, "")

	require.NoError(t, env.run("api", "-X", "HEAD", "/issue/FOO-1"))

	assert.Empty(t, env.out.String())
	assert.Contains(t, env.errOut.String(), "HTTP/1.1 200 OK\n")
}

func TestAPI_ErrorStatusIsNotAnError(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("api", "/nope"))
	assert.Equal(t, "{\n    \"errorMessages\": [\n        \"no route\"\n    ],\n    \"errors\": {}\n}\n", env.out.String())
}

func TestAPI_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no endpoint", args: []string{"api"}, wantErr: "invalid arguments"},
		{name: "bad header", args: []string{"api", "-H", "NoColon", "/myself"}, wantErr: "failed to parse header: NoColon"},
		{name: "bad data", args: []string{"api", "-d", "{nope", "/issue/FOO-1"}, wantErr: "given DATA is not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrUsage))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteResponseBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty", body: "", want: ""},
		{name: "whitespace", body: " \n", want: ""},
		{name: "json", body: `[1,2]`, want: "[\n    1,\n    2\n]\n"},
		{name: "text without newline", body: "plain", want: "plain\n"},
		{name: "text with newline", body: "plain\n", want: "plain\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeResponseBody(&buf, []byte(tt.body)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
