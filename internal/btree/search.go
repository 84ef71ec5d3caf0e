package btree

import (
	"fmt"

	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// Search returns a copy of the row-id bucket stored under key, descending
// from the root and stopping at the first node holding the key. A key that is
// not present, or a NULL key (never stored), yields an empty result.
func (tr *Tree) Search(key value.Value) ([]int64, error) {
	if key.IsNull() {
		return nil, nil
	}
	n, idx, err := tr.locate(key)
	if err != nil || n == nil {
		return nil, err
	}
	out := make([]int64, len(n.buckets[idx]))
	copy(out, n.buckets[idx])
	return out, nil
}

// locate finds the node and key position holding key, or nil when absent.
func (tr *Tree) locate(key value.Value) (*node, int, error) {
	n := tr.root
	for {
		idx, found, err := n.findKey(key)
		if err != nil {
			return nil, 0, err
		}
		if found {
			return n, idx, nil
		}
		if n.leaf {
			return nil, 0, nil
		}
		n = n.children[idx]
	}
}

// SearchRange collects every (key, rowID) pair with lo <= key <= hi, in
// ascending key order, visiting only subtrees whose key range intersects
// [lo, hi]. An inverted range is empty.
func (tr *Tree) SearchRange(lo, hi value.Value) ([]Entry, error) {
	if lo.IsNull() || hi.IsNull() {
		return nil, fmt.Errorf("%w: range bound", ErrNullKey)
	}
	var out []Entry
	if err := searchRange(tr.root, lo, hi, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func searchRange(n *node, lo, hi value.Value, out *[]Entry) error {
	for i := 0; i <= len(n.keys); i++ {
		if !n.leaf {
			descend := true
			if i > 0 {
				// the subtree holds keys above keys[i-1]
				c, err := n.keys[i-1].Compare(hi)
				if err != nil {
					return err
				}
				if c >= 0 {
					descend = false
				}
			}
			if i < len(n.keys) {
				// the subtree holds keys below keys[i]
				c, err := n.keys[i].Compare(lo)
				if err != nil {
					return err
				}
				if c <= 0 {
					descend = false
				}
			}
			if descend {
				if err := searchRange(n.children[i], lo, hi, out); err != nil {
					return err
				}
			}
		}
		if i == len(n.keys) {
			break
		}

		cLo, err := n.keys[i].Compare(lo)
		if err != nil {
			return err
		}
		cHi, err := n.keys[i].Compare(hi)
		if err != nil {
			return err
		}
		if cLo >= 0 && cHi <= 0 {
			for _, rid := range n.buckets[i] {
				*out = append(*out, Entry{Key: n.keys[i], RowID: rid})
			}
		}
		if cHi > 0 {
			// keys and subtrees to the right only grow further past hi
			return nil
		}
	}
	return nil
}
