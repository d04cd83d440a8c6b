// Package config loads the release changelog configuration using koanf.
// Values are layered with priority: command-line overrides > environment
// variables (GNOSISVPN_*) > config file > defaults. The configuration is
// built once per run and validated before any network call is made.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gnosis/gnosisvpn-release/internal/changelog"
	"github.com/gnosis/gnosisvpn-release/internal/git"
)

// EnvPrefix is the prefix of every environment variable read into the configuration.
const EnvPrefix = "GNOSISVPN_"

// TokenEnvFallback is consulted when GNOSISVPN_GITHUB_TOKEN is not set.
const TokenEnvFallback = "GITHUB_TOKEN"

// Configuration represents the inputs of one changelog generation run.
type Configuration struct {
	// PackageVersion is the version of the installer package being released.
	PackageVersion string `koanf:"package_version" validate:"required"`

	ClientPreviousVersion string `koanf:"client_previous_version" validate:"required"`
	ClientCurrentVersion  string `koanf:"client_current_version" validate:"required"`
	AppPreviousVersion    string `koanf:"app_previous_version" validate:"required"`
	AppCurrentVersion     string `koanf:"app_current_version" validate:"required"`

	// Format selects the renderer: github, debian, json or rpm.
	Format string `koanf:"format" validate:"required,format"`
	// Branch is the base branch pull requests must have been merged into.
	Branch     string `koanf:"branch" validate:"required"`
	MaxRetries int    `koanf:"max_retries" validate:"min=1,max=20"`

	GitHubToken string `koanf:"github_token" validate:"required"`
	APIURL      string `koanf:"api_url" validate:"required,url"`

	ClientRepository string `koanf:"client_repository" validate:"required,repository"`
	AppRepository    string `koanf:"app_repository" validate:"required,repository"`
	// InstallerRepository defaults to the origin remote of the working directory.
	InstallerRepository string `koanf:"installer_repository" validate:"required,repository"`

	// Output is the artifact path. Empty means the format's default file name.
	Output string `koanf:"output"`
	// MetricsFile enables a Prometheus textfile with run metrics when set.
	MetricsFile string `koanf:"metrics_file"`
}

// ChangelogFormat returns the validated output format.
func (c *Configuration) ChangelogFormat() changelog.Format {
	f, err := changelog.ParseFormat(c.Format)
	if err != nil {
		return changelog.FormatGitHub
	}
	return f
}

// OutputPath returns the artifact path, falling back to the format default.
func (c *Configuration) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return c.ChangelogFormat().DefaultFilename()
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ConfigPath is an explicit config file. When empty, ProjectConfigPath()
	// is loaded if it exists.
	ConfigPath string
	// Overrides are applied last, typically from command-line flags.
	Overrides map[string]any
	// WorkDir is the directory used to detect the installer repository.
	// Empty means the current working directory.
	WorkDir string
	// DetectRepository resolves the installer repository when none is
	// configured. Defaults to git.OriginRepository.
	DetectRepository func(path string) (string, error)
	// Logger receives debug output about repository detection.
	Logger *slog.Logger
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadConfigFile(k, opts.ConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	return finalizeConfig(k, opts)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadConfigFile loads an explicit config file, or the project config when
// present. YAML files are checked first so errors carry line numbers and
// misspelled settings are rejected instead of silently ignored.
func loadConfigFile(k *koanf.Koanf, explicitPath string) error {
	path := explicitPath
	if path == "" {
		path = ProjectConfigPath()
		if !fileExists(path) {
			return nil
		}
	}

	if !fileExists(path) {
		return &ValidationError{FilePath: path, Message: "config file not found"}
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return nil
	}

	if err := CheckConfigFile(path); err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	// Exported but empty variables are skipped so they leave the lower layers
	// in place instead of zeroing typed keys such as max_retries.
	provider := env.ProviderWithValue(EnvPrefix, ".", func(name, value string) (string, interface{}) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return envTransform(name), value
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	if k.String("github_token") == "" {
		if token := os.Getenv(TokenEnvFallback); token != "" {
			k.Set("github_token", token)
		}
	}
	return nil
}

// finalizeConfig unmarshals, fills derived values and validates.
func finalizeConfig(k *koanf.Koanf, opts LoadOptions) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	restoreEmptyDefaults(&cfg)

	if cfg.InstallerRepository == "" {
		cfg.InstallerRepository = detectInstallerRepository(opts)
	}

	source := "config"
	if opts.ConfigPath != "" {
		source = opts.ConfigPath
	}
	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Format = string(cfg.ChangelogFormat())
	return &cfg, nil
}

// restoreEmptyDefaults re-applies defaults for keys that were set to an empty
// string, e.g. by a blank override or config file entry.
func restoreEmptyDefaults(cfg *Configuration) {
	defaults := GetDefaults()
	fields := map[string]*string{
		"format":            &cfg.Format,
		"branch":            &cfg.Branch,
		"api_url":           &cfg.APIURL,
		"client_repository": &cfg.ClientRepository,
		"app_repository":    &cfg.AppRepository,
	}
	for key, field := range fields {
		if strings.TrimSpace(*field) == "" {
			*field = defaults[key].(string)
		}
	}
}

// detectInstallerRepository reads the origin remote of the working directory,
// falling back to DefaultInstallerRepository.
func detectInstallerRepository(opts LoadOptions) string {
	detect := opts.DetectRepository
	if detect == nil {
		detect = git.OriginRepository
	}

	repo, err := detect(opts.WorkDir)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Debug("installer repository not detected, using default",
				"default", DefaultInstallerRepository, "error", err)
		}
		return DefaultInstallerRepository
	}
	return repo
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: GNOSISVPN_MAX_RETRIES -> max_retries
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// EnvVar returns the environment variable that sets key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}
