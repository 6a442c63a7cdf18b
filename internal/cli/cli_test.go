package cli

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layerforge/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"generate", "inspect", "runtimes"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestGenerateCommandFlags(t *testing.T) {
	cmd := newGenerateCommand()
	flags := []string{
		"spec-file", "runtime", "description",
		"s3-bucket", "endpoint", "pip-index-url",
		"timeout", "retries", "retry-delay-ms",
		"json", "quiet",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestGenerateCommandDefaults(t *testing.T) {
	cmd := newGenerateCommand()
	assert.Equal(t, "900", cmd.Flags().Lookup("timeout").DefValue)
	assert.Equal(t, "3", cmd.Flags().Lookup("retries").DefValue)
	assert.Equal(t, "500", cmd.Flags().Lookup("retry-delay-ms").DefValue)
}

func TestInspectCommandFlags(t *testing.T) {
	cmd := newInspectCommand()
	flags := []string{"endpoint", "timeout", "retries", "retry-delay-ms", "json"}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestInspectCommandRequiresARN(t *testing.T) {
	cmd := newInspectCommand()
	err := cmd.Args(cmd, []string{})
	assert.Error(t, err, "inspect without an ARN argument")
	err = cmd.Args(cmd, []string{"arn:aws:lambda:eu-west-1:1:layer:x:1"})
	assert.NoError(t, err)
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveInt(t *testing.T) {
	got := resolveInt(nil, 42, "test_key", "test-flag")
	assert.Equal(t, 42, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad specifier"),
			expected: 2,
		},
		{
			name: "missing credentials",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("missing cloud credentials"),
			expected: 3,
		},
		{
			name: "permission denied",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("access denied"),
			expected: 3,
		},
		{
			name: "size limit",
			err: errbuilder.New().
				WithCode(errbuilder.CodeResourceExhausted).
				WithMsg("archive too large"),
			expected: 4,
		},
		{
			name: "remote unavailable",
			err: errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg("throttled"),
			expected: 5,
		},
		{
			name: "timeout",
			err: errbuilder.New().
				WithCode(errbuilder.CodeDeadlineExceeded).
				WithMsg("install timed out"),
			expected: 5,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExitCodeForStagedError(t *testing.T) {
	// Codes survive the stage wrapper, so the exit code reflects the
	// underlying failure, not the wrapping.
	err := types.WrapStage(types.StageBuild, types.KindSizeLimit, errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg("layer archive above the inline upload ceiling"))
	assert.Equal(t, 4, exitCodeForError(err))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
