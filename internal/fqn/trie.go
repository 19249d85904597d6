package fqn

import (
	"errors"
	"strings"
)

// RootName is what Fqn reports for the root node.
const RootName = "(root)"

// DefaultSeparator separates the segments of a fully qualified name.
const DefaultSeparator = '.'

const none = -1

// ErrIncomparable is returned when two nodes do not share a root.
var ErrIncomparable = errors.New("fqn: nodes are not part of the same trie")

// ErrInvalidName is returned by SaveWith for a segment that cannot be
// written as a single field.
var ErrInvalidName = errors.New("fqn: empty or whitespace segment")

// ValidName reports whether every segment of fqn is non-empty and free of
// whitespace, which Save needs to write it back.
func ValidName(fqn string, sep byte) bool {
	if fqn == "" || strings.ContainsAny(fqn, " \t\r\n") {
		return false
	}
	for _, seg := range strings.Split(fqn, string(sep)) {
		if seg == "" {
			return false
		}
	}
	return true
}

type node[T any] struct {
	name       string
	parent     int
	firstChild int
	sibling    int
	data       T
}

// Trie is an ordered prefix tree over dotted names. All nodes live in a
// single arena and link to each other by index. Siblings are kept in
// strictly ascending order by name and nodes are never removed.
//
// A Trie is not safe for concurrent mutation.
type Trie[T any] struct {
	nodes []node[T]
}

// New creates a trie holding only the root node.
func New[T any]() *Trie[T] {
	t := &Trie[T]{nodes: make([]node[T], 0, 64)}
	t.nodes = append(t.nodes, node[T]{parent: none, firstChild: none, sibling: none})
	return t
}

// Root returns the root node.
func (t *Trie[T]) Root() Node[T] {
	return Node[T]{trie: t, index: 0}
}

// Size returns the number of nodes, the root included.
func (t *Trie[T]) Size() int {
	return len(t.nodes)
}

// Intern creates every missing segment of fqn below the root and returns the final node.
func (t *Trie[T]) Intern(fqn string) Node[T] {
	return t.Root().ChildPath(fqn, DefaultSeparator)
}

// Lookup walks fqn from the root without creating anything.
func (t *Trie[T]) Lookup(fqn string) (Node[T], bool) {
	return t.Root().Lookup(fqn, DefaultSeparator)
}

// insertChild finds or inserts the child of parent called name, keeping the
// sibling list sorted.
func (t *Trie[T]) insertChild(parent int, name string) int {
	prev := none
	cur := t.nodes[parent].firstChild
	for cur != none {
		cmp := strings.Compare(t.nodes[cur].name, name)
		if cmp == 0 {
			return cur
		}
		if cmp > 0 {
			break
		}
		prev = cur
		cur = t.nodes[cur].sibling
	}

	idx := len(t.nodes)
	t.nodes = append(t.nodes, node[T]{
		name:       name,
		parent:     parent,
		firstChild: none,
		sibling:    cur,
	})
	if prev == none {
		t.nodes[parent].firstChild = idx
	} else {
		t.nodes[prev].sibling = idx
	}
	return idx
}

// findChild returns the index of the child of parent called name, or none.
func (t *Trie[T]) findChild(parent int, name string) int {
	for cur := t.nodes[parent].firstChild; cur != none; cur = t.nodes[cur].sibling {
		cmp := strings.Compare(t.nodes[cur].name, name)
		if cmp == 0 {
			return cur
		}
		if cmp > 0 {
			return none
		}
	}
	return none
}

func (t *Trie[T]) depth(idx int) int {
	d := 0
	for p := t.nodes[idx].parent; p != none; p = t.nodes[p].parent {
		d++
	}
	return d
}

// Node is a handle on one node of a Trie. The zero Node is invalid.
type Node[T any] struct {
	trie  *Trie[T]
	index int
}

// Valid reports whether the handle points at a node.
func (n Node[T]) Valid() bool {
	return n.trie != nil
}

// Trie returns the trie that owns the node.
func (n Node[T]) Trie() *Trie[T] {
	return n.trie
}

// Index returns the arena position of the node.
func (n Node[T]) Index() int {
	return n.index
}

// Name returns the segment name. The root has an empty name.
func (n Node[T]) Name() string {
	return n.trie.nodes[n.index].name
}

// IsRoot reports whether n is the root of its trie.
func (n Node[T]) IsRoot() bool {
	return n.trie.nodes[n.index].parent == none
}

// Parent returns the parent node, or false for the root.
func (n Node[T]) Parent() (Node[T], bool) {
	p := n.trie.nodes[n.index].parent
	if p == none {
		return Node[T]{}, false
	}
	return Node[T]{trie: n.trie, index: p}, true
}

// HasChildren reports whether n has at least one child.
func (n Node[T]) HasChildren() bool {
	return n.trie.nodes[n.index].firstChild != none
}

// Depth returns the number of edges between n and the root.
func (n Node[T]) Depth() int {
	return n.trie.depth(n.index)
}

// Data returns the payload attached to n.
func (n Node[T]) Data() T {
	return n.trie.nodes[n.index].data
}

// SetData attaches a payload to n.
func (n Node[T]) SetData(data T) {
	n.trie.nodes[n.index].data = data
}

// Child returns the child called name, creating it if necessary.
func (n Node[T]) Child(name string) Node[T] {
	return Node[T]{trie: n.trie, index: n.trie.insertChild(n.index, name)}
}

// ChildPath walks fqn segment by segment, creating any missing node.
func (n Node[T]) ChildPath(fqn string, sep byte) Node[T] {
	idx := n.index
	start := 0
	for i := 0; i < len(fqn); i++ {
		if fqn[i] == sep {
			idx = n.trie.insertChild(idx, fqn[start:i])
			start = i + 1
		}
	}
	idx = n.trie.insertChild(idx, fqn[start:])
	return Node[T]{trie: n.trie, index: idx}
}

// Lookup walks fqn segment by segment. It never creates nodes and reports
// false as soon as a segment is missing.
func (n Node[T]) Lookup(fqn string, sep byte) (Node[T], bool) {
	idx := n.index
	start := 0
	for i := 0; i <= len(fqn); i++ {
		if i == len(fqn) || fqn[i] == sep {
			idx = n.trie.findChild(idx, fqn[start:i])
			if idx == none {
				return Node[T]{}, false
			}
			start = i + 1
		}
	}
	return Node[T]{trie: n.trie, index: idx}, true
}

// Pather is anything that can report the segment names leading to it from its root.
type Pather interface {
	Path() []string
}

// Path returns the segment names from the root down to n. The root has an empty path.
func (n Node[T]) Path() []string {
	d := n.Depth()
	path := make([]string, d)
	for idx := n.index; d > 0; idx = n.trie.nodes[idx].parent {
		d--
		path[d] = n.trie.nodes[idx].name
	}
	return path
}

// LookupNode replays the root-to-node path of other below n. other may belong
// to a different trie, even one with a different payload type.
func (n Node[T]) LookupNode(other Pather) (Node[T], bool) {
	idx := n.index
	for _, name := range other.Path() {
		idx = n.trie.findChild(idx, name)
		if idx == none {
			return Node[T]{}, false
		}
	}
	return Node[T]{trie: n.trie, index: idx}, true
}

// Fqn reconstructs the dotted name of n.
func (n Node[T]) Fqn() string {
	if n.IsRoot() {
		return RootName
	}
	return strings.Join(n.Path(), string(DefaultSeparator))
}

func (n Node[T]) String() string {
	return n.Fqn()
}

// Compare orders n against other: ancestors come before descendants and
// left siblings before right siblings. It returns ErrIncomparable when the
// nodes belong to different tries.
func (n Node[T]) Compare(other Node[T]) (int, error) {
	if n.trie == nil || n.trie != other.trie {
		return 0, ErrIncomparable
	}
	if n.index == other.index {
		return 0, nil
	}

	t := n.trie
	a, b := n.index, other.index
	da, db := t.depth(a), t.depth(b)

	for da > db {
		a = t.nodes[a].parent
		da--
		if a == b {
			return 1, nil
		}
	}
	for db > da {
		b = t.nodes[b].parent
		db--
		if a == b {
			return -1, nil
		}
	}

	for t.nodes[a].parent != t.nodes[b].parent {
		a = t.nodes[a].parent
		b = t.nodes[b].parent
		if a == none || b == none {
			return 0, ErrIncomparable
		}
	}
	return strings.Compare(t.nodes[a].name, t.nodes[b].name), nil
}
