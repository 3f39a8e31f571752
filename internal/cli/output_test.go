package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/regram/internal/config"
	"github.com/roach88/regram/internal/gramindex"
	"github.com/roach88/regram/internal/regexast"
	"github.com/roach88/regram/internal/translate"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"query": "ANY"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeParse, "bad pattern", map[string]string{"pattern": "a(b"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParse, resp.Error.Code)
	assert.Equal(t, "bad pattern", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error(ErrCodeConfig, "gram_length out of range", "max 8"))
	assert.Contains(t, buf.String(), "Error [E001]: gram_length out of range")
	assert.Contains(t, buf.String(), "Details: max 8")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: tt.verbose}

			formatter.VerboseLog("translated %s", "abc")

			assert.Empty(t, out.String(), "diagnostics never reach stdout")
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "translated abc")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	_, parseErr := regexast.Parse("a(b", regexast.DialectRE2)
	require.Error(t, parseErr)

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"config", &config.Error{Field: "gram_length", Message: "out of range"}, ErrCodeConfig, ExitCommandError},
		{"translator config", &translate.ConfigError{Field: "MaxExact"}, ErrCodeConfig, ExitCommandError},
		{"parse", parseErr, ErrCodeParse, ExitFailure},
		{"unsupported", &translate.UnsupportedNodeError{Op: "x"}, ErrCodeUnsupported, ExitFailure},
		{"not found", fmt.Errorf("get: %w", gramindex.ErrNotFound), ErrCodeNotFound, ExitFailure},
		{"mismatch", fmt.Errorf("open: %w", gramindex.ErrGramLengthMismatch), ErrCodeIndex, ExitCommandError},
		{"other", errors.New("disk full"), ErrCodeGeneric, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := classifyError(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	cause := fmt.Errorf("open: %w", gramindex.ErrGramLengthMismatch)
	err := formatter.Fail("opening index", cause)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, gramindex.ErrGramLengthMismatch)
	assert.Contains(t, buf.String(), "Error [E004]: opening index")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "x"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitFailure, "outer", errors.New("inner"))
	assert.Equal(t, "outer: inner", wrapped.Error())
}
