package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"1.2.3", Version{1, 2, 3}},
		{"0.0.0", Version{0, 0, 0}},
		{"10.20.30", Version{10, 20, 30}},
		{"01.2.3", Version{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"1",
		"1.2",
		"1-2-3",
		"1.2.3.4",
		"1..3",
		"a.b.c",
		"-1.2.3",
		"1.2.x",
		" 1.2.3",
		"1.2.3 ",
		"+1.2.3",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseVersion(in)
			assert.ErrorIs(t, err, ErrVersionFormat)
		})
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "1.2.3", Version{Major: 1, Minor: 2, Patch: 3}.String())
}

func TestLibraryLabel(t *testing.T) {
	lib := Library{Title: "Interactive Video", Version: Version{1, 22, 4}}
	assert.Equal(t, "Interactive Video 1.22.4", lib.Label())
}

func TestNormalizeTitle(t *testing.T) {
	// "e" + combining acute accent vs precomposed "é"
	decomposed := "Cafe\u0301"
	precomposed := "Caf\u00e9"

	assert.Equal(t, precomposed, NormalizeTitle(decomposed))
	assert.Equal(t, "Test library", NormalizeTitle("  Test library\n"))
}
