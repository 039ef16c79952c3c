package cli

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareEqual(t *testing.T) {
	out, err := execute(t, "compare", `{"a":1,"b":[2]}`, `{"b":[2],"a":1}`)
	require.NoError(t, err)
	assert.Contains(t, out, "equal (document, storage-form)")
}

func TestCompareDifferent(t *testing.T) {
	out, err := execute(t, "compare", `{"a":1}`, `{"a":2}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "different (document, storage-form)")
}

func TestCompareModes(t *testing.T) {
	for _, mode := range []string{"storage-form", "round-trip"} {
		t.Run(mode, func(t *testing.T) {
			out, err := execute(t, "--format", "json", "compare", "--mode", mode, "--as", "element", `[1,{"y":2,"x":1}]`, `[1,{"x":1,"y":2}]`)
			require.NoError(t, err)

			var resp struct {
				Data CompareResult `json:"data"`
			}
			require.NoError(t, gojson.Unmarshal([]byte(out), &resp))
			assert.True(t, resp.Data.Equal)
			assert.Equal(t, mode, resp.Data.Mode)
			assert.Equal(t, resp.Data.HashA, resp.Data.HashB)
			assert.Len(t, resp.Data.HashA, 16)
		})
	}
}

func TestCompareTextIsByteExact(t *testing.T) {
	out, err := execute(t, "compare", "--as", "text", `{"a":1}`, `{"a": 1}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "different (text, storage-form)")
}

func TestCompareErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"bad mode", []string{"compare", "--mode", "loose", `1`, `1`}, ErrCodeInvalidFlag},
		{"invalid left", []string{"compare", `{`, `{}`}, ErrCodeInvalidJSON},
		{"invalid right", []string{"compare", `{}`, `[`}, ErrCodeInvalidJSON},
		{"unknown type", []string{"compare", "--as", "blob", `{}`, `{}`}, ErrCodeUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}
