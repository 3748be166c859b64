package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tier4/mapvalidator/schema"
)

func TestGetPlainStatus(t *testing.T) {
	assert.Equal(t, PassedValue, GetPlainStatus(true))
	assert.Equal(t, FailedValue, GetPlainStatus(false))
}

func TestGetColorStatus(t *testing.T) {
	assert.Contains(t, GetColorStatus(true), PassedValue)
	assert.Contains(t, GetColorStatus(false), FailedValue)
}

func TestGetColorSeverity(t *testing.T) {
	for _, sev := range schema.AllSeverities {
		t.Run(sev.String(), func(t *testing.T) {
			assert.Contains(t, GetColorSeverity(sev), sev.String())
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".mapvalidator_history.db")
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		expected string
	}{
		{"fits", "Lanelet 1", 20, "Lanelet 1"},
		{"exact", "abcdef", 6, "abcdef"},
		{"truncated", "abcdefghij", 6, "abc..."},
		{"width too small", "abcdefghij", 3, "abcdefghij"},
		{"multibyte", "日本語のメッセージ", 5, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.maxWidth))
		})
	}
}

func TestShortMapName(t *testing.T) {
	assert.Equal(t, "sample/lanelet2_map.osm", ShortMapName("/data/maps/sample/lanelet2_map.osm"))
	assert.Equal(t, "lanelet2_map.osm", ShortMapName("lanelet2_map.osm"))
	assert.Equal(t, "", ShortMapName(""))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
