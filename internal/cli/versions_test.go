package cli

import (
	"testing"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooVersions = `[
	{"id": "102", "name": "1.1", "releaseDate": "2024-06-01", "released": false, "archived": false},
	{"id": "101", "name": "1.0", "releaseDate": "2024-01-01", "released": true, "archived": false},
	{"id": "100", "name": "0.9", "releaseDate": "2023-06-01", "released": true, "archived": true}
]`

func newVersionEnv(t *testing.T) *testEnv {
	env := newTestEnv(t)
	env.json("GET /rest/api/2/project/FOO/versions", 200, fooVersions)
	return env
}

func TestVersionList(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default columns sorted by release date",
			args: []string{"version", "list", "FOO"},
			want: "NAME  RELEASEDATE  RELEASED  ARCHIVED\n" +
				"0.9   2023-06-01   true      true\n" +
				"1.0   2024-01-01   true      false\n" +
				"1.1   2024-06-01   false     false\n",
		},
		{
			name: "exclude archived",
			args: []string{"version", "ls", "-a", "FOO"},
			want: "NAME  RELEASEDATE  RELEASED  ARCHIVED\n" +
				"1.0   2024-01-01   true      false\n" +
				"1.1   2024-06-01   false     false\n",
		},
		{
			name: "shortcut excluding released",
			args: []string{"versions", "-r", "-H", "-o", "id,name", "FOO"},
			want: "102  1.1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newVersionEnv(t)
			require.NoError(t, env.run(tt.args...))
			assert.Equal(t, tt.want, env.out.String())
		})
	}
}

func TestVersionList_JSON(t *testing.T) {
	env := newVersionEnv(t)

	require.NoError(t, env.run("version", "list", "-j", "-a", "-r", "FOO"))
	assert.Equal(t, `{"archived":false,"id":"102","name":"1.1","releaseDate":"2024-06-01","released":false}`+"\n",
		env.out.String())
}

func TestVersionGet(t *testing.T) {
	env := newVersionEnv(t)
	env.json("GET /rest/api/2/version/101", 200, `{"id":"101","name":"1.0","released":true}`)

	require.NoError(t, env.run("version", "get", "101"))
	assert.Equal(t, "{\n    \"id\": \"101\",\n    \"name\": \"1.0\",\n    \"released\": true\n}\n", env.out.String())

	env.out.Reset()
	require.NoError(t, env.run("version", "get", "FOO", "1.1"))
	assert.Contains(t, env.out.String(), `"id": "102"`)

	err := env.run("version", "get", "FOO", "2.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "2.0" version on project "FOO"`)

	err = env.run("version", "get", "FOO", "1.0", "extra")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUsage))
}

func TestVersionCreate(t *testing.T) {
	env := newTestEnv(t)
	env.json("POST /rest/api/2/version", 201,
		`{"id":"103","name":"1.2","releaseDate":"2024-09-01","released":true,"archived":false}`)

	require.NoError(t, env.run("version", "create", "-r", "2024-09-01", "-D", "Autumn", "--released", "FOO", "1.2"))

	assert.Equal(t, `Created version FOO "1.2" (releaseDate=2024-09-01, released)`+"\n", env.out.String())
	assert.Equal(t, map[string]interface{}{
		"project":     "FOO",
		"name":        "1.2",
		"description": "Autumn",
		"released":    true,
		"releaseDate": "2024-09-01",
	}, env.lastBody("POST /rest/api/2/version"))
}

func TestVersionCreate_BadReleaseDate(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("version", "create", "-r", "Sept 1", "FOO", "1.2")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUsage))
	assert.Contains(t, err.Error(), "release date does not match YYYY-MM-DD: Sept 1")
	assert.Empty(t, env.requestsTo("POST /rest/api/2/version"))
}

func TestVersionUpdate(t *testing.T) {
	env := newVersionEnv(t)
	env.json("PUT /rest/api/2/version/102", 200, `{"id":"102","name":"1.1"}`)

	require.NoError(t, env.run("version", "update", "FOO", "1.1", "releaseDate=2024-07-01", "archived=false"))

	assert.Equal(t, `Updated version 102 (FOO "1.1").`+"\n", env.out.String())
	assert.Equal(t, map[string]interface{}{"releaseDate": "2024-07-01", "archived": false},
		env.lastBody("PUT /rest/api/2/version/102"))
}

func TestVersionUpdate_Errors(t *testing.T) {
	env := newVersionEnv(t)

	err := env.run("version", "update", "FOO", "1.1", "name=2.0")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUsage))
	assert.Contains(t, err.Error(), `invalid field: "name"`)

	err = env.run("version", "update", "FOO", "1.1", "released=yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `must be "true" or "false"`)

	// No updates is a no-op.
	require.NoError(t, env.run("version", "update", "FOO", "1.1"))
	assert.Empty(t, env.requestsTo("PUT /rest/api/2/version/102"))
}

func TestVersionArchiveRelease(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantBody map[string]interface{}
	}{
		{
			name:     "archive by id",
			args:     []string{"version", "archive", "101"},
			wantOut:  "Archived version 101 (1.0).\n",
			wantBody: map[string]interface{}{"archived": true},
		},
		{
			name:    "already released",
			args:    []string{"version", "release", "FOO", "1.0"},
			wantOut: `Version 101 (FOO "1.0") is already released.` + "\n",
		},
		{
			name:     "release by name",
			args:     []string{"version", "release", "FOO", "1.1"},
			wantOut:  `Released version 102 (FOO "1.1").` + "\n",
			wantBody: map[string]interface{}{"released": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newVersionEnv(t)
			env.json("GET /rest/api/2/version/101", 200, `{"id":"101","name":"1.0","released":true,"archived":false}`)
			env.json("PUT /rest/api/2/version/101", 200, `{}`)
			env.json("PUT /rest/api/2/version/102", 200, `{}`)

			require.NoError(t, env.run(tt.args...))
			assert.Equal(t, tt.wantOut, env.out.String())

			puts := append(env.requestsTo("PUT /rest/api/2/version/101"), env.requestsTo("PUT /rest/api/2/version/102")...)
			if tt.wantBody == nil {
				assert.Empty(t, puts)
				return
			}
			require.Len(t, puts, 1)
			assert.JSONEq(t, mustJSON(t, tt.wantBody), puts[0].Body)
		})
	}
}

func TestVersionDelete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		env := newVersionEnv(t)
		env.json("DELETE /rest/api/2/version/102", 204, "")
		var prompts []string
		env.app.confirm = func(title string) (bool, error) {
			prompts = append(prompts, title)
			return true, nil
		}

		require.NoError(t, env.run("version", "delete", "FOO", "1.1"))
		assert.Equal(t, []string{`Delete version 102 (FOO "1.1")?`}, prompts)
		assert.Equal(t, `Deleted version 102 (FOO "1.1").`+"\n", env.out.String())
		assert.Len(t, env.requestsTo("DELETE /rest/api/2/version/102"), 1)
	})

	t.Run("forced", func(t *testing.T) {
		env := newVersionEnv(t)
		env.json("GET /rest/api/2/version/102", 200, `{"id":"102","name":"1.1"}`)
		env.json("DELETE /rest/api/2/version/102", 204, "")

		require.NoError(t, env.run("version", "rm", "-f", "102"))
		assert.Equal(t, "Deleted version 102 (1.1).\n", env.out.String())
	})

	t.Run("declined", func(t *testing.T) {
		env := newVersionEnv(t)
		env.app.confirm = func(string) (bool, error) { return false, nil }

		err := env.run("version", "delete", "FOO", "1.1")
		assert.True(t, errors.IsAborted(err))
		assert.Empty(t, env.requestsTo("DELETE /rest/api/2/version/102"))
	})

	t.Run("interrupted", func(t *testing.T) {
		env := newVersionEnv(t)
		env.app.confirm = func(string) (bool, error) { return false, errors.ErrAborted }

		err := env.run("version", "delete", "FOO", "1.1")
		require.Error(t, err)
		assert.False(t, errors.IsAborted(err))
		assert.Contains(t, err.Error(), "cancelled")
		assert.Empty(t, env.requestsTo("DELETE /rest/api/2/version/102"))
	})
}

func TestParseVersionRef(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exact    bool
		want     versionRef
		wantRest []string
		wantErr  bool
	}{
		{name: "id", args: []string{"10042"}, exact: true, want: versionRef{id: "10042"}, wantRest: []string{}},
		{name: "project and name", args: []string{"FOO", "1.0"}, exact: true, want: versionRef{project: "FOO", name: "1.0"}, wantRest: []string{}},
		{name: "id with rest", args: []string{"10042", "released=true"}, want: versionRef{id: "10042"}, wantRest: []string{"released=true"}},
		{name: "name with rest", args: []string{"FOO", "1.0", "a=b"}, want: versionRef{project: "FOO", name: "1.0"}, wantRest: []string{"a=b"}},
		{name: "exact id with extra", args: []string{"10042", "x"}, exact: true, wantErr: true},
		{name: "exact name with extra", args: []string{"FOO", "1.0", "x"}, exact: true, wantErr: true},
		{name: "single non-numeric", args: []string{"FOO"}, exact: true, wantErr: true},
		{name: "none", args: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := parseVersionRef(tt.args, tt.exact)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "incorrect number of args")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}
