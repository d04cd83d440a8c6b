package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnosis/gnosisvpn-release/internal/changelog"
)

// fakeAPI serves the releases and pull requests of a release in which the
// client moved from v0.50.1 to v0.51.0, the app is unchanged and the installer
// was last released as v0.11.0.
type fakeAPI struct {
	clientCreatedAt string
	throttle        bool
}

func (f fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			if f.throttle {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprint(w, body)
		}
	}

	clientCreatedAt := f.clientCreatedAt
	if clientCreatedAt == "" {
		clientCreatedAt = "2026-09-01T00:00:00Z"
	}

	mux.Handle("GET /repos/gnosis/gnosis_vpn-client/releases/tags/v0.50.1",
		reply(fmt.Sprintf(`{"tag_name":"v0.50.1","created_at":%q}`, clientCreatedAt)))
	mux.Handle("GET /repos/gnosis/gnosis_vpn-client/releases/tags/v0.51.0",
		reply(`{"tag_name":"v0.51.0","created_at":"2026-10-01T00:00:00Z"}`))
	mux.Handle("GET /repos/gnosis/gnosis_vpn-client/pulls", reply(`[
		{"number":7,"title":"feat(daemon): reconnect on wake","user":{"login":"alice"},
		 "labels":[{"name":"enhancement"}],"state":"closed","merged_at":"2026-09-20T10:00:00Z"},
		{"number":6,"title":"chore: old work","user":{"login":"alice"},
		 "labels":[],"state":"closed","merged_at":"2026-08-20T10:00:00Z"}
	]`))
	mux.Handle("GET /repos/gnosis/gnosis_vpn/releases",
		reply(`[{"tag_name":"v0.11.0"}]`))
	mux.Handle("GET /repos/gnosis/gnosis_vpn/releases/tags/v0.11.0",
		reply(`{"tag_name":"v0.11.0","created_at":"2026-09-15T08:30:00Z"}`))
	mux.Handle("GET /repos/gnosis/gnosis_vpn/pulls", reply(`[
		{"number":3,"title":"fix(ci): sign macOS package","user":{"login":"bob"},
		 "labels":[{"name":"bug"}],"state":"closed","merged_at":"2026-10-10T12:00:00Z"}
	]`))
	return mux
}

// setReleaseEnv points the configuration at srv through the environment.
func setReleaseEnv(t *testing.T, srv *httptest.Server) {
	t.Helper()

	t.Setenv("GITHUB_TOKEN", "")
	for key, value := range map[string]string{
		"GNOSISVPN_PACKAGE_VERSION":         "0.12.0",
		"GNOSISVPN_CLIENT_PREVIOUS_VERSION": "v0.50.1",
		"GNOSISVPN_CLIENT_CURRENT_VERSION":  "v0.51.0",
		"GNOSISVPN_APP_PREVIOUS_VERSION":    "v0.9.0",
		"GNOSISVPN_APP_CURRENT_VERSION":     "v0.9.0",
		"GNOSISVPN_GITHUB_TOKEN":            "test-token",
		"GNOSISVPN_API_URL":                 srv.URL,
		"GNOSISVPN_INSTALLER_REPOSITORY":    "gnosis/gnosis_vpn",
	} {
		t.Setenv(key, value)
	}
}

func startFakeAPI(t *testing.T, api fakeAPI) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestChangelogCmd_JSON(t *testing.T) {
	srv := startFakeAPI(t, fakeAPI{})
	setReleaseEnv(t, srv)
	path := filepath.Join(t.TempDir(), "out", "changelog.json")

	stdout, stderr, err := executeCommand(t, "changelog", "--format", "json", "--output", path)
	require.NoError(t, err, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries, err := changelog.ParseJSON(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "7", entries[0].ID)
	assert.Equal(t, changelog.ComponentClient, entries[0].Component)
	assert.Equal(t, "feat", entries[0].Type)
	assert.Equal(t, "3", entries[1].ID)
	assert.Equal(t, changelog.ComponentInstaller, entries[1].Component)
	assert.Equal(t, "2026-10-10", entries[1].Date)

	assert.FileExists(t, path+".gz")
	assert.Contains(t, stdout, "Wrote "+path)
	assert.Contains(t, stdout, "skipped (no release window)")
	assert.Contains(t, stderr, "release window")
}

func TestChangelogCmd_PrintAndMetrics(t *testing.T) {
	srv := startFakeAPI(t, fakeAPI{})
	setReleaseEnv(t, srv)
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "run.prom")

	stdout, stderr, err := executeCommand(t, "changelog",
		"--format", "github",
		"--output", filepath.Join(dir, "changelog.md"),
		"--metrics-file", metricsPath,
		"--print")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "## What's Changed")
	assert.Contains(t, stdout, "### New Features")
	assert.Contains(t, stdout, "- [Client] feat(daemon): reconnect on wake by @alice in #7")
	assert.Contains(t, stdout, "### Fixes")

	metricsText, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metricsText), "gnosisvpn_release_changelog_api_requests_total")
	assert.Contains(t, string(metricsText), `gnosisvpn_release_changelog_entries{component="Installer"} 1`)
}

func TestChangelogCmd_Failures(t *testing.T) {
	tests := map[string]struct {
		api        fakeAPI
		args       []string
		env        map[string]string
		wantCode   int
		wantStderr string
	}{
		"missing token": {
			env:        map[string]string{"GNOSISVPN_GITHUB_TOKEN": ""},
			wantCode:   ExitInvalidArguments,
			wantStderr: "no GitHub token configured",
		},
		"unsupported format": {
			args:       []string{"--format", "xml"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "format",
		},
		"throttled on every attempt": {
			api:        fakeAPI{throttle: true},
			args:       []string{"--max-retries", "1"},
			wantCode:   ExitRetryExhausted,
			wantStderr: "GitHub API rate limit not lifted",
		},
		"invalid release date": {
			api:        fakeAPI{clientCreatedAt: "2026-09-01"},
			wantCode:   ExitInvalidData,
			wantStderr: "cannot determine release window",
		},
		"unexpected argument": {
			args:       []string{"extra"},
			wantCode:   ExitInvalidArguments,
			wantStderr: `unknown command "extra"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := startFakeAPI(t, tt.api)
			setReleaseEnv(t, srv)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			path := filepath.Join(t.TempDir(), "changelog")

			args := append([]string{"changelog", "--output", path}, tt.args...)
			_, stderr, err := executeCommand(t, args...)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, stderr, tt.wantStderr)
			assert.NoFileExists(t, path)
		})
	}
}

func TestFlagOverrides(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	require.NoError(t, changelogCmd.ParseFlags([]string{"--branch", "release/0.12", "--max-retries", "3"}))

	overrides, err := flagOverrides(changelogCmd)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"branch": "release/0.12", "max_retries": 3}, overrides)
}
