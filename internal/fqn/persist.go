package fqn

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const nullToken = "null"

// ErrFormat is wrapped by every error Load reports for malformed input.
var ErrFormat = errors.New("fqn: malformed trie file")

// Encoder turns a node payload into extra whitespace-free fields.
type Encoder[T any] func(n Node[T]) []string

// Decoder rebuilds a node payload from the extra fields of its line.
type Decoder[T any] func(fields []string) (T, error)

// Save writes the trie in pre-order, one "name parentIndex" line per node.
// The root is written first as "null null".
func (t *Trie[T]) Save(w io.Writer) error {
	return t.SaveWith(w, nil)
}

// SaveWith is Save with extra payload fields appended to each line.
func (t *Trie[T]) SaveWith(w io.Writer, encode Encoder[T]) error {
	bw := bufio.NewWriter(w)
	position := make([]int, len(t.nodes))

	written := 0
	for it := t.Root().PreOrder(); it.Next(); {
		n := it.Node()
		position[n.index] = written
		written++

		var line strings.Builder
		if n.IsRoot() {
			line.WriteString(nullToken + " " + nullToken)
		} else {
			if n.Name() == "" || strings.ContainsAny(n.Name(), " \t\r\n") {
				return fmt.Errorf("%w: %q in %q", ErrInvalidName, n.Name(), n.Fqn())
			}
			line.WriteString(n.Name())
			line.WriteByte(' ')
			line.WriteString(strconv.Itoa(position[t.nodes[n.index].parent]))
		}
		if encode != nil {
			for _, field := range encode(n) {
				line.WriteByte(' ')
				line.WriteString(field)
			}
		}
		line.WriteByte('\n')
		if _, err := bw.WriteString(line.String()); err != nil {
			return fmt.Errorf("failed to write trie: %w", err)
		}
	}
	return bw.Flush()
}

// Load rebuilds a trie written by Save.
func Load[T any](r io.Reader) (*Trie[T], error) {
	return LoadWith[T](r, nil)
}

// LoadWith rebuilds a trie written by SaveWith. Each node is linked to a
// parent that appeared earlier in the file; the first line must be the root.
func LoadWith[T any](r io.Reader, decode Decoder[T]) (*Trie[T], error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var t *Trie[T]
	var arena []int     // file position -> arena index
	var lastChild []int // arena index -> most recently appended child
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected name and parent index", ErrFormat, lineNo)
		}

		if t == nil {
			if fields[0] != nullToken || fields[1] != nullToken {
				return nil, fmt.Errorf("%w: line %d: first line must be the root", ErrFormat, lineNo)
			}
			t = New[T]()
			arena = append(arena, 0)
			lastChild = append(lastChild, none)
			if err := decodeInto(t.Root(), fields[2:], decode, lineNo); err != nil {
				return nil, err
			}
			continue
		}

		parentPos, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid parent index %q", ErrFormat, lineNo, fields[1])
		}
		if parentPos < 0 || parentPos >= len(arena) {
			return nil, fmt.Errorf("%w: line %d: parent index %d out of range", ErrFormat, lineNo, parentPos)
		}

		parent := arena[parentPos]
		idx := t.appendChild(parent, fields[0], lastChild)
		if idx == len(lastChild) {
			lastChild = append(lastChild, none)
		}
		lastChild[parent] = idx
		arena = append(arena, idx)

		if err := decodeInto(Node[T]{trie: t, index: idx}, fields[2:], decode, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trie: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: empty input", ErrFormat)
	}
	return t, nil
}

// appendChild links name under parent. Input written by Save arrives in
// sibling order, so the common case is a constant-time append after the last
// child; anything else falls back to a sorted insert.
func (t *Trie[T]) appendChild(parent int, name string, lastChild []int) int {
	last := lastChild[parent]
	if last != none && t.nodes[last].sibling == none && t.nodes[last].name < name {
		idx := len(t.nodes)
		t.nodes = append(t.nodes, node[T]{name: name, parent: parent, firstChild: none, sibling: none})
		t.nodes[last].sibling = idx
		return idx
	}
	return t.insertChild(parent, name)
}

func decodeInto[T any](n Node[T], extra []string, decode Decoder[T], lineNo int) error {
	if decode == nil {
		return nil
	}
	data, err := decode(extra)
	if err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrFormat, lineNo, err)
	}
	n.SetData(data)
	return nil
}
