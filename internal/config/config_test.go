package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv exports every required key so tests only vary what they check.
func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("GNOSISVPN_PACKAGE_VERSION", "0.12.0")
	t.Setenv("GNOSISVPN_CLIENT_PREVIOUS_VERSION", "v0.10.0")
	t.Setenv("GNOSISVPN_CLIENT_CURRENT_VERSION", "v0.11.0")
	t.Setenv("GNOSISVPN_APP_PREVIOUS_VERSION", "v0.5.0")
	t.Setenv("GNOSISVPN_APP_CURRENT_VERSION", "v0.5.0")
	t.Setenv("GNOSISVPN_GITHUB_TOKEN", "ghs_prefixed")
	t.Setenv("GITHUB_TOKEN", "")
}

func detectStub(repo string, err error) func(string) (string, error) {
	return func(string) (string, error) { return repo, err }
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadWithOptions(LoadOptions{DetectRepository: detectStub("gnosis/gnosis_vpn-fork", nil)})
	require.NoError(t, err)

	assert.Equal(t, "0.12.0", cfg.PackageVersion)
	assert.Equal(t, "v0.10.0", cfg.ClientPreviousVersion)
	assert.Equal(t, "v0.11.0", cfg.ClientCurrentVersion)
	assert.Equal(t, "v0.5.0", cfg.AppPreviousVersion)
	assert.Equal(t, "v0.5.0", cfg.AppCurrentVersion)
	assert.Equal(t, "github", cfg.Format)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, 6, cfg.MaxRetries)
	assert.Equal(t, "ghs_prefixed", cfg.GitHubToken)
	assert.Equal(t, "https://api.github.com/", cfg.APIURL)
	assert.Equal(t, DefaultClientRepository, cfg.ClientRepository)
	assert.Equal(t, DefaultAppRepository, cfg.AppRepository)
	assert.Equal(t, "gnosis/gnosis_vpn-fork", cfg.InstallerRepository)
	assert.Equal(t, "changelog.md", cfg.OutputPath())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GNOSISVPN_FORMAT", "DEBIAN")
	t.Setenv("GNOSISVPN_BRANCH", "release/0.12")
	t.Setenv("GNOSISVPN_MAX_RETRIES", "3")
	t.Setenv("GNOSISVPN_INSTALLER_REPOSITORY", "hoprnet/gnosis_vpn")
	t.Setenv("GNOSISVPN_OUTPUT", "build/changelog")

	cfg, err := LoadWithOptions(LoadOptions{DetectRepository: detectStub("", errors.New("unused"))})
	require.NoError(t, err)

	assert.Equal(t, "debian", cfg.Format)
	assert.Equal(t, "release/0.12", cfg.Branch)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "hoprnet/gnosis_vpn", cfg.InstallerRepository)
	assert.Equal(t, "build/changelog", cfg.OutputPath())
}

func TestLoad_EmptyEnvironmentKeepsDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GNOSISVPN_BRANCH", "")
	t.Setenv("GNOSISVPN_FORMAT", "")
	t.Setenv("GNOSISVPN_MAX_RETRIES", "")
	t.Setenv("GNOSISVPN_API_URL", "  ")

	cfg, err := LoadWithOptions(LoadOptions{DetectRepository: detectStub("gnosis/gnosis_vpn", nil)})
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, "github", cfg.Format)
	assert.Equal(t, 6, cfg.MaxRetries)
	assert.Equal(t, "https://api.github.com/", cfg.APIURL)
}

func TestLoad_EmptyEnvironmentKeepsFileValue(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GNOSISVPN_MAX_RETRIES", "")

	path := filepath.Join(t.TempDir(), "release.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_retries: 4\n"), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{ConfigPath: path, DetectRepository: detectStub("gnosis/gnosis_vpn", nil)})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxRetries)
}

func TestLoad_GitHubToken(t *testing.T) {
	tests := map[string]struct {
		prefixed string
		fallback string
		want     string
		wantErr  bool
	}{
		"prefixed variable":      {prefixed: "ghs_prefixed", want: "ghs_prefixed"},
		"fallback variable":      {fallback: "ghs_fallback", want: "ghs_fallback"},
		"prefixed wins":          {prefixed: "ghs_prefixed", fallback: "ghs_fallback", want: "ghs_prefixed"},
		"missing token is fatal": {wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("GNOSISVPN_GITHUB_TOKEN", tc.prefixed)
			t.Setenv("GITHUB_TOKEN", tc.fallback)

			cfg, err := LoadWithOptions(LoadOptions{DetectRepository: detectStub("gnosis/gnosis_vpn", nil)})
			if tc.wantErr {
				var valErr *ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.Equal(t, "github_token", valErr.Field)
				assert.Equal(t, "is required", valErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.GitHubToken)
		})
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	keys := []string{
		"package_version",
		"client_previous_version",
		"client_current_version",
		"app_previous_version",
		"app_current_version",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			require.NoError(t, os.Unsetenv(EnvVar(key)))

			_, err := LoadWithOptions(LoadOptions{DetectRepository: detectStub("gnosis/gnosis_vpn", nil)})

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, key, valErr.Field)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]struct {
		key       string
		value     string
		wantField string
		wantMsg   string
	}{
		"unsupported format":   {key: "format", value: "markdown", wantField: "format", wantMsg: "unsupported format"},
		"retries below one":    {key: "max_retries", value: "0", wantField: "max_retries", wantMsg: "must be at least 1"},
		"retries above max":    {key: "max_retries", value: "50", wantField: "max_retries", wantMsg: "must be at most 20"},
		"malformed repository": {key: "client_repository", value: "gnosis_vpn-client", wantField: "client_repository", wantMsg: "owner/name"},
		"malformed api url":    {key: "api_url", value: "not a url", wantField: "api_url", wantMsg: "must be a URL"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(EnvVar(tc.key), tc.value)

			_, err := LoadWithOptions(LoadOptions{DetectRepository: detectStub("gnosis/gnosis_vpn", nil)})

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tc.wantField, valErr.Field)
			assert.Contains(t, valErr.Message, tc.wantMsg)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	tests := map[string]struct {
		filename string
		content  string
	}{
		"yaml": {
			filename: "release.yml",
			content:  "format: rpm\nbranch: develop\nmax_retries: 4\napp_repository: gnosis/app-fork\n",
		},
		"json": {
			filename: "release.json",
			content:  `{"format": "rpm", "branch": "develop", "max_retries": 4, "app_repository": "gnosis/app-fork"}`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)

			path := filepath.Join(t.TempDir(), tc.filename)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			cfg, err := LoadWithOptions(LoadOptions{
				ConfigPath:       path,
				DetectRepository: detectStub("gnosis/gnosis_vpn", nil),
			})
			require.NoError(t, err)

			assert.Equal(t, "rpm", cfg.Format)
			assert.Equal(t, "develop", cfg.Branch)
			assert.Equal(t, 4, cfg.MaxRetries)
			assert.Equal(t, "gnosis/app-fork", cfg.AppRepository)
			assert.Equal(t, "changelog.rpm", cfg.OutputPath())
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GNOSISVPN_BRANCH", "from-env")
	t.Setenv("GNOSISVPN_FORMAT", "debian")

	path := filepath.Join(t.TempDir(), "release.yml")
	require.NoError(t, os.WriteFile(path, []byte("branch: from-file\nformat: rpm\noutput: from-file.txt\n"), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{
		ConfigPath:       path,
		Overrides:        map[string]any{"format": "json"},
		DetectRepository: detectStub("gnosis/gnosis_vpn", nil),
	})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Branch, "environment beats file")
	assert.Equal(t, "json", cfg.Format, "override beats environment")
	assert.Equal(t, "from-file.txt", cfg.Output, "file beats default")
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadWithOptions(LoadOptions{ConfigPath: filepath.Join(dir, "absent.yml")})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "config file not found", valErr.Message)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yml")
		require.NoError(t, os.WriteFile(path, []byte("format: github\nbranch: [main\n"), 0o644))

		_, err := LoadWithOptions(LoadOptions{ConfigPath: path})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, path, valErr.FilePath)
		assert.Contains(t, err.Error(), "checking config file")
		assert.Contains(t, err.Error(), "release config is not valid YAML")
	})

	t.Run("unknown setting", func(t *testing.T) {
		path := filepath.Join(dir, "typo.yml")
		require.NoError(t, os.WriteFile(path, []byte("format: github\nmax_retry: 3\n"), 0o644))

		_, err := LoadWithOptions(LoadOptions{ConfigPath: path})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "max_retry", valErr.Field)
		assert.Contains(t, err.Error(), path+":2:1: unknown setting")
	})
}

func TestLoad_InstallerRepositoryFallback(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadWithOptions(LoadOptions{DetectRepository: detectStub("", errors.New("not a git repository"))})
	require.NoError(t, err)
	assert.Equal(t, DefaultInstallerRepository, cfg.InstallerRepository)
}

func TestConfiguration_OutputPath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg  Configuration
		want string
	}{
		"github default": {cfg: Configuration{Format: "github"}, want: "changelog.md"},
		"debian default": {cfg: Configuration{Format: "debian"}, want: "changelog"},
		"json default":   {cfg: Configuration{Format: "json"}, want: "changelog.json"},
		"rpm default":    {cfg: Configuration{Format: "rpm"}, want: "changelog.rpm"},
		"explicit":       {cfg: Configuration{Format: "rpm", Output: "dist/CHANGES"}, want: "dist/CHANGES"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.OutputPath())
		})
	}
}

func TestEnvVar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GNOSISVPN_GITHUB_TOKEN", EnvVar("github_token"))
	assert.Equal(t, "max_retries", envTransform("GNOSISVPN_MAX_RETRIES"))
}
