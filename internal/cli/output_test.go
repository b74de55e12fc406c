package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "scenarios failed")
	assert.Equal(t, "scenarios failed", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))

	wrapped := WrapExitError(ExitCommandError, "opening store", errors.New("permission denied"))
	assert.Equal(t, "opening store: permission denied", wrapped.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.EqualError(t, errors.Unwrap(wrapped), "permission denied")
}

func TestGetExitCodeDefaultsToFailure(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))
}

func TestGetExitCodeUnwrapsThroughFmt(t *testing.T) {
	inner := NewExitError(ExitCommandError, "dataset not found")
	wrapped := fmt.Errorf("reconcile: %w", inner)
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestFormatterSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"runs": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestFormatterErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error(ErrCodeSchema, "bound must be >= 0", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSchema, resp.Error.Code)
	assert.Equal(t, "bound must be >= 0", resp.Error.Message)
}

func TestFormatterErrorText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Error(ErrCodeNotFound, "dataset not found", nil))
	assert.Contains(t, buf.String(), "Error [E002]: dataset not found")
}

func TestVerboseLogRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}

	f.VerboseLog("loaded %d measurements", 2)
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON on stdout")
	assert.Equal(t, "loaded 2 measurements\n", errOut.String())
}

func TestVerboseLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: false}

	f.VerboseLog("should not appear")
	assert.Empty(t, buf.String())
}
