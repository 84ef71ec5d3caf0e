package btree

import (
	"log/slog"
	"slices"

	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// Insert adds rowID under key. An existing key grows its bucket; a new key is
// placed in sorted position. Insertion is top-down: any full node met on the
// way down is split first, so no node ever overflows mid-descent.
func (tr *Tree) Insert(key value.Value, rowID int64) error {
	if key.IsNull() {
		return ErrNullKey
	}
	if len(tr.root.keys) == tr.maxKeys() {
		oldRoot := tr.root
		tr.root = &node{children: []*node{oldRoot}}
		tr.splitChild(tr.root, 0)
		slog.Debug("btree.root.split", "order", tr.order, "height", tr.Height())
	}
	return tr.insertNonFull(tr.root, key, rowID)
}

func (tr *Tree) insertNonFull(n *node, key value.Value, rowID int64) error {
	for {
		idx, found, err := n.findKey(key)
		if err != nil {
			return err
		}
		if found {
			n.buckets[idx] = append(n.buckets[idx], rowID)
			return nil
		}
		if n.leaf {
			n.keys = slices.Insert(n.keys, idx, key)
			n.buckets = slices.Insert(n.buckets, idx, []int64{rowID})
			return nil
		}

		child := n.children[idx]
		if len(child.keys) == tr.maxKeys() {
			tr.splitChild(n, idx)
			// the median moved up into position idx; re-aim the descent
			c, err := key.Compare(n.keys[idx])
			if err != nil {
				return err
			}
			if c == 0 {
				n.buckets[idx] = append(n.buckets[idx], rowID)
				return nil
			}
			if c > 0 {
				idx++
			}
		}
		n = n.children[idx]
	}
}

// splitChild splits the full child at position i of parent around its median
// key (position t-1). The median key and its bucket move up into the parent;
// the upper halves of the child's keys, buckets and children move into a new
// right sibling.
func (tr *Tree) splitChild(parent *node, i int) {
	t := tr.order
	child := parent.children[i]
	sibling := &node{leaf: child.leaf}

	medianKey := child.keys[t-1]
	medianBucket := child.buckets[t-1]

	sibling.keys = append(sibling.keys, child.keys[t:]...)
	sibling.buckets = append(sibling.buckets, child.buckets[t:]...)
	child.keys = child.keys[:t-1]
	child.buckets = child.buckets[:t-1]

	if !child.leaf {
		sibling.children = append(sibling.children, child.children[t:]...)
		child.children = child.children[:t]
	}

	parent.keys = slices.Insert(parent.keys, i, medianKey)
	parent.buckets = slices.Insert(parent.buckets, i, medianBucket)
	parent.children = slices.Insert(parent.children, i+1, sibling)
}
