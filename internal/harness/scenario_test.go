package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: small
description: "one case"
config:
  max_exact: 8
cases:
  - pattern: "abc"
    expect: '"abc"'
assertions:
  - type: dnf
`))
	require.NoError(t, err)
	assert.Equal(t, "small", scenario.Name)
	assert.Equal(t, 8, scenario.Config["max_exact"])
	require.Len(t, scenario.Cases, 1)
	assert.Equal(t, `"abc"`, scenario.Cases[0].Expect)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "description: d\ncases: [{pattern: abc}]", "name is required"},
		{"missing description", "name: n\ncases: [{pattern: abc}]", "description is required"},
		{"no cases", "name: n\ndescription: d", "cases list is required"},
		{"empty pattern", "name: n\ndescription: d\ncases: [{expect: ANY}]", "pattern is required"},
		{"bad dialect", "name: n\ndescription: d\ncases: [{pattern: abc, dialect: posix}]", "posix"},
		{"error with expect", "name: n\ndescription: d\ncases: [{pattern: abc, error: x, expect: ANY}]", "cannot be combined"},
		{"unknown assertion", "name: n\ndescription: d\ncases: [{pattern: abc}]\nassertions: [{type: fast}]", "unknown assertion type"},
		{"any without patterns", "name: n\ndescription: d\ncases: [{pattern: abc}]\nassertions: [{type: any}]", "patterns list is required"},
		{"typo", "name: n\ndescription: d\ncase: [{pattern: abc}]", "case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
