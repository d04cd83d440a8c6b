package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnosis/gnosisvpn-release/internal/build"
	"github.com/gnosis/gnosisvpn-release/internal/config"
)

func TestClassifyCmd(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"scoped feature": {
			args: []string{"feat(ui): add tray icon"},
			want: "type:    feat\nsection: New Features\n",
		},
		"unquoted words are joined": {
			args: []string{"fix:", "reconnect", "on", "wake"},
			want: "type:    fix\nsection: Fixes\n",
		},
		"no prefix": {
			args: []string{"Bump dependencies"},
			want: "type:    other\nsection: Other\n",
		},
		"chore is automation": {
			args: []string{"chore(deps): update go-git"},
			want: "type:    chore\nsection: Automation\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, append([]string{"classify"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestClassifyCmd_MissingTitle(t *testing.T) {
	_, stderr, err := executeCommand(t, "classify", "  ")

	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "pull request title is required")
	assert.Contains(t, stderr, "Usage:")
}

func TestConfigTemplateCmd(t *testing.T) {
	stdout, _, err := executeCommand(t, "config", "template")
	require.NoError(t, err)

	assert.Equal(t, config.GetDefaultConfigTemplate(), stdout)
	for key := range config.GetDefaults() {
		assert.Contains(t, stdout, key+":", "template should document %s", key)
	}
}

func TestVersionCmd(t *testing.T) {
	tests := map[string]struct {
		args []string
		want func(t *testing.T, out string)
	}{
		"full report": {
			args: []string{"version"},
			want: func(t *testing.T, out string) {
				assert.True(t, strings.HasPrefix(out, "gnosisvpn-release "+build.Version))
				assert.Contains(t, out, "commit: "+build.Commit)
			},
		},
		"plain": {
			args: []string{"version", "--plain"},
			want: func(t *testing.T, out string) {
				assert.Equal(t, build.Version+"\n", out)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, tt.args...)
			require.NoError(t, err)
			tt.want(t, stdout)
		})
	}
}
