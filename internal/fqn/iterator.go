package fqn

import "iter"

type order int

const (
	orderChildren order = iota
	orderPreOrder
	orderPostOrder
	orderLeaves
)

// Iterator is a cursor over part of a trie. It keeps constant state between
// steps and never recurses, so it is safe on very deep or very wide tries.
//
//	for it := node.PreOrder(); it.Next(); {
//		visit(it.Node())
//	}
type Iterator[T any] struct {
	trie    *Trie[T]
	start   int
	cur     int
	order   order
	started bool
}

func newIterator[T any](n Node[T], o order) *Iterator[T] {
	return &Iterator[T]{trie: n.trie, start: n.index, cur: none, order: o}
}

// Children iterates the direct children of n in name order.
func (n Node[T]) Children() *Iterator[T] {
	return newIterator(n, orderChildren)
}

// PreOrder iterates n and its descendants, parents before children.
func (n Node[T]) PreOrder() *Iterator[T] {
	return newIterator(n, orderPreOrder)
}

// PostOrder iterates the descendants of n and then n itself, children before parents.
func (n Node[T]) PostOrder() *Iterator[T] {
	return newIterator(n, orderPostOrder)
}

// Leaves iterates the descendants of n that have no children, in pre-order.
func (n Node[T]) Leaves() *Iterator[T] {
	return newIterator(n, orderLeaves)
}

// Node returns the node under the cursor. It is only valid after Next returned true.
func (it *Iterator[T]) Node() Node[T] {
	return Node[T]{trie: it.trie, index: it.cur}
}

// Reset rewinds the cursor to its starting position.
func (it *Iterator[T]) Reset() {
	it.cur = none
	it.started = false
}

// Next advances the cursor and reports whether a node is available.
func (it *Iterator[T]) Next() bool {
	switch it.order {
	case orderChildren:
		return it.nextChild()
	case orderPreOrder:
		return it.nextPreOrder()
	case orderPostOrder:
		return it.nextPostOrder()
	case orderLeaves:
		for it.nextPreOrder() {
			if it.cur != it.start && it.trie.nodes[it.cur].firstChild == none {
				return true
			}
		}
		return false
	}
	return false
}

// Seq adapts the iterator to a range-over-func sequence. The iterator is
// rewound first, so the sequence can be ranged over more than once.
func (it *Iterator[T]) Seq() iter.Seq[Node[T]] {
	return func(yield func(Node[T]) bool) {
		it.Reset()
		for it.Next() {
			if !yield(it.Node()) {
				return
			}
		}
	}
}

// Each calls fn for every remaining node until fn returns false.
func (it *Iterator[T]) Each(fn func(Node[T]) bool) {
	for it.Next() {
		if !fn(it.Node()) {
			return
		}
	}
}

// Collect drains the iterator into a slice.
func (it *Iterator[T]) Collect() []Node[T] {
	var out []Node[T]
	for n := range it.Seq() {
		out = append(out, n)
	}
	return out
}

func (it *Iterator[T]) nextChild() bool {
	if !it.started {
		it.started = true
		it.cur = it.trie.nodes[it.start].firstChild
	} else if it.cur != none {
		it.cur = it.trie.nodes[it.cur].sibling
	}
	return it.cur != none
}

func (it *Iterator[T]) nextPreOrder() bool {
	nodes := it.trie.nodes
	if !it.started {
		it.started = true
		it.cur = it.start
		return true
	}
	if it.cur == none {
		return false
	}
	if child := nodes[it.cur].firstChild; child != none {
		it.cur = child
		return true
	}
	for it.cur != it.start {
		if sib := nodes[it.cur].sibling; sib != none {
			it.cur = sib
			return true
		}
		it.cur = nodes[it.cur].parent
	}
	it.cur = none
	return false
}

func (it *Iterator[T]) nextPostOrder() bool {
	nodes := it.trie.nodes
	if !it.started {
		it.started = true
		it.cur = it.leftmostLeaf(it.start)
		return true
	}
	if it.cur == none {
		return false
	}
	if it.cur == it.start {
		it.cur = none
		return false
	}
	if sib := nodes[it.cur].sibling; sib != none {
		it.cur = it.leftmostLeaf(sib)
		return true
	}
	it.cur = nodes[it.cur].parent
	return true
}

func (it *Iterator[T]) leftmostLeaf(idx int) int {
	for child := it.trie.nodes[idx].firstChild; child != none; child = it.trie.nodes[idx].firstChild {
		idx = child
	}
	return idx
}
