package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
)

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	require.NoError(t, saveFile(path, "trie", func(w io.Writer) error {
		_, err := io.WriteString(w, "null null\n")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "null null\n", string(data))

	err = saveFile(path, "trie", func(io.Writer) error { return errors.New("disk full") })
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeOutputError))
	assert.Contains(t, err.Error(), "failed to write trie")
}

func TestFileOutputWriter(t *testing.T) {
	var status, stdout bytes.Buffer
	w := NewFileOutputWriter(&status)
	render := func(out io.Writer) error {
		_, err := io.WriteString(out, "report")
		return err
	}

	require.NoError(t, w.Write(&stdout, "", domain.OutputFormatText, render))
	assert.Equal(t, "report", stdout.String())
	assert.Empty(t, status.String())

	path := filepath.Join(t.TempDir(), "cloning.json")
	require.NoError(t, w.Write(&stdout, path, domain.OutputFormatJSON, render))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report", string(data))
	assert.Contains(t, status.String(), "JSON report generated: ")
}
