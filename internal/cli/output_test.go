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

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(&ExitError{Code: ExitCommandError, Message: "bad path"}))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := fmt.Errorf("context: %w", WrapExitError(ExitCommandError, "open store", errors.New("locked")))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitError_Message(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "write export", inner)

	assert.Equal(t, "write export: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := &ExitError{Code: ExitFailure, Message: "validation failed"}
	assert.Equal(t, "validation failed", bare.Error())
}

func TestOutputFormatter_JSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	done, err := f.JSON(map[string]int{"fired": 2})
	require.NoError(t, err)
	assert.True(t, done)

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Error)
}

func TestOutputFormatter_TextLeavesOutputToCaller(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	done, err := f.JSON(map[string]int{"fired": 2})
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, buf.String())

	f.Verbose = true
	f.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", buf.String())
}
