package fqn

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRejectsEmptySegments(t *testing.T) {
	assert.True(t, ValidName("com.example.Foo", DefaultSeparator))
	for _, name := range []string{"", "com..Foo", "a.", ".a", "a.b c"} {
		assert.False(t, ValidName(name, DefaultSeparator), name)
	}

	trie := New[struct{}]()
	trie.Intern("com..Foo")
	var buf bytes.Buffer
	err := trie.Save(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	original := build("a.b.c", "a.b.d", "a.e")

	var buf bytes.Buffer
	require.NoError(t, original.Save(&buf))
	assert.Equal(t, "null null\na 0\nb 1\nc 2\nd 2\ne 1\n", buf.String())

	loaded, err := Load[struct{}](&buf)
	require.NoError(t, err)
	assert.Equal(t, original.Size(), loaded.Size())

	assert.Equal(t,
		fqnsOf(original.Root().PreOrder().Collect()),
		fqnsOf(loaded.Root().PreOrder().Collect()))
	assert.Equal(t, []string{"a.b.c", "a.b.d", "a.e"}, fqnsOf(loaded.Root().Leaves().Collect()))

	for _, f := range []string{"a", "a.b"} {
		_, ok := loaded.Lookup(f)
		assert.True(t, ok, f)
	}
}

func TestLoadOutOfOrderSiblings(t *testing.T) {
	input := "null null\nz 0\na 0\nm 0\n"
	trie, err := Load[struct{}](strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "m", "z"}, fqnsOf(trie.Root().Children().Collect()))
}

func TestSaveLoadWithPayload(t *testing.T) {
	original := New[int]()
	original.Intern("a.b").SetData(7)
	original.Intern("a.c").SetData(9)

	encode := func(n Node[int]) []string {
		return []string{strconv.Itoa(n.Data())}
	}
	decode := func(fields []string) (int, error) {
		if len(fields) != 1 {
			return 0, fmt.Errorf("expected 1 payload field, got %d", len(fields))
		}
		return strconv.Atoi(fields[0])
	}

	var buf bytes.Buffer
	require.NoError(t, original.SaveWith(&buf, encode))

	loaded, err := LoadWith[int](&buf, decode)
	require.NoError(t, err)

	b, ok := loaded.Lookup("a.b")
	require.True(t, ok)
	assert.Equal(t, 7, b.Data())
	c, _ := loaded.Lookup("a.c")
	assert.Equal(t, 9, c.Data())

	_, err = LoadWith[int](strings.NewReader("null null\na 0\n"), decode)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad first line", "a 0\nb 1\n"},
		{"root with index", "null 0\n"},
		{"non integer parent", "null null\na x\n"},
		{"forward parent", "null null\na 2\nb 0\n"},
		{"negative parent", "null null\na -1\n"},
		{"missing field", "null null\na\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load[struct{}](strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}
