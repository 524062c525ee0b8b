package asm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleProgramsParse(t *testing.T) {
	entries, err := os.ReadDir("../examples")
	require.NoError(t, err)

	found := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".tis" {
			continue
		}
		found++
		src, err := os.ReadFile(filepath.Join("../examples", entry.Name()))
		require.NoError(t, err)

		_, err = Parse(string(src))
		assert.NoError(t, err, "parsing %s", entry.Name())
	}
	assert.Positive(t, found, "expected at least one .tis sample program")
}
