// Package btree implements the ordered index structure: an order-t B-tree
// mapping scalar keys to buckets of row ids. Keys are unique within the tree;
// inserting an existing key grows its bucket, so non-unique columns index
// naturally. All keys of one tree must be mutually comparable.
package btree

import (
	"errors"
	"fmt"

	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// DefaultOrder is the fan-out bound used when no explicit order is configured.
const DefaultOrder = 4

var (
	// ErrInvalidOrder reports an order below the minimum of 2.
	ErrInvalidOrder = errors.New("btree: order must be at least 2")
	// ErrNullKey reports an attempt to store a NULL key. NULL values have no
	// defined ordering and are never indexed.
	ErrNullKey = errors.New("btree: cannot index a NULL key")
)

// Entry is one (key, rowID) pair produced by a range scan or a full dump.
type Entry struct {
	Key   value.Value
	RowID int64
}

// Tree is an order-t B-tree. A node holds at most 2t-1 keys; a non-root node
// holds at least t-1; an internal node with k keys has exactly k+1 children;
// all leaves sit at equal depth.
type Tree struct {
	order int
	root  *node
}

type node struct {
	leaf     bool
	keys     []value.Value
	buckets  [][]int64 // parallel to keys; every node carries its keys' buckets
	children []*node   // len(keys)+1 when internal
}

// New builds an empty tree of the given order t.
func New(order int) (*Tree, error) {
	if order < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	return &Tree{order: order, root: &node{leaf: true}}, nil
}

func (tr *Tree) Order() int { return tr.order }

func (tr *Tree) maxKeys() int { return 2*tr.order - 1 }

// Height is the number of levels, 1 for a tree that is only a root leaf.
func (tr *Tree) Height() int {
	h := 1
	for n := tr.root; !n.leaf; n = n.children[0] {
		h++
	}
	return h
}

// Entries dumps every (key, rowID) pair in ascending key order.
func (tr *Tree) Entries() []Entry {
	var out []Entry
	tr.root.appendEntries(&out)
	return out
}

func (n *node) appendEntries(out *[]Entry) {
	for i := 0; i <= len(n.keys); i++ {
		if !n.leaf {
			n.children[i].appendEntries(out)
		}
		if i == len(n.keys) {
			break
		}
		for _, rid := range n.buckets[i] {
			*out = append(*out, Entry{Key: n.keys[i], RowID: rid})
		}
	}
}

// findKey scans for key inside one node. It returns the first position whose
// key is >= key, and whether that position is an exact match.
func (n *node) findKey(key value.Value) (int, bool, error) {
	for i, k := range n.keys {
		c, err := key.Compare(k)
		if err != nil {
			return 0, false, fmt.Errorf("btree: compare key %s: %w", key, err)
		}
		if c == 0 {
			return i, true, nil
		}
		if c < 0 {
			return i, false, nil
		}
	}
	return len(n.keys), false, nil
}

func (n *node) removeAt(idx int) {
	n.keys = append(n.keys[:idx], n.keys[idx+1:]...)
	n.buckets = append(n.buckets[:idx], n.buckets[idx+1:]...)
}
