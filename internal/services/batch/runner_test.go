package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
)

func TestCappedBuffer(t *testing.T) {
	t.Run("under the cap", func(t *testing.T) {
		buf := cappedBuffer{max: 100}
		buf.WriteLine("hello")
		buf.WriteLine("world")
		assert.Equal(t, "hello\nworld\n", buf.String())
	})

	t.Run("truncates at the cap", func(t *testing.T) {
		buf := cappedBuffer{max: 8}
		buf.WriteLine("hello")
		buf.WriteLine("world")
		assert.Equal(t, "hello\nwo", buf.String())
		assert.Len(t, buf.String(), 8)
	})

	t.Run("drops everything past the cap", func(t *testing.T) {
		buf := cappedBuffer{max: 6}
		buf.WriteLine("hello")
		buf.WriteLine("world")
		buf.WriteLine("again")
		assert.Equal(t, "hello\n", buf.String())
	})
}

func TestBuildEnv(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("HOME", "/home/batch")

	runner := &ProcessRunner{
		config: &common.WorkflowConfig{
			APIKey:        "test-key",
			StoreURI:      "badger://./data",
			StoreDatabase: "trendboard",
		},
		logger: arbor.NewLogger(),
	}

	env := runner.buildEnv()
	assert.Contains(t, env, "PATH=/usr/bin")
	assert.Contains(t, env, "HOME=/home/batch")
	assert.Contains(t, env, "GEMINI_API_KEY=test-key")
	assert.Contains(t, env, "TRENDBOARD_STORE_URI=badger://./data")
	assert.Contains(t, env, "TRENDBOARD_STORE_DATABASE=trendboard")

	// Nothing outside the allow list leaks into the child
	for _, entry := range env {
		key := strings.SplitN(entry, "=", 2)[0]
		switch key {
		case "PATH", "HOME", "TMPDIR", "LANG",
			"GEMINI_API_KEY", "TRENDBOARD_STORE_URI", "TRENDBOARD_STORE_DATABASE":
		default:
			t.Errorf("unexpected env var passed to workflow: %s", key)
		}
	}
}

func TestBuildEnvOmitsUnsetValues(t *testing.T) {
	runner := &ProcessRunner{
		config: &common.WorkflowConfig{},
		logger: arbor.NewLogger(),
	}

	for _, entry := range runner.buildEnv() {
		assert.False(t, strings.HasPrefix(entry, "GEMINI_API_KEY="))
		assert.False(t, strings.HasPrefix(entry, "TRENDBOARD_STORE_URI="))
		assert.False(t, strings.HasPrefix(entry, "TRENDBOARD_STORE_DATABASE="))
	}
}

func TestProcessRunnerExitCodes(t *testing.T) {
	logger := arbor.NewLogger()

	tests := []struct {
		name     string
		args     string
		exitCode int
		stdout   string
		stderr   string
	}{
		{"success with stdout", "echo extracted; exit 0", 0, "extracted\n", ""},
		{"failure with stderr", "echo boom >&2; exit 3", 3, "", "boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// sh -c treats the positional country/category/weeks arguments as
			// $0 and up, so the script body alone decides the child's behavior
			runner := &ProcessRunner{
				config: &common.WorkflowConfig{
					Command:       "sh",
					Script:        "-c",
					MaxOutputSize: 1000,
				},
				logger: logger,
			}

			result, err := runner.Run(context.Background(), tt.args, "", 0)
			require.NoError(t, err)
			assert.Equal(t, tt.exitCode, result.ExitCode)
			assert.Equal(t, tt.stdout, result.Stdout)
			assert.Equal(t, tt.stderr, result.Stderr)
		})
	}
}
