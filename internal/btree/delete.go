package btree

import (
	"slices"

	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// Delete removes key and its whole bucket, rebalancing on the way: a key
// found in an internal node is replaced by its in-order predecessor or
// successor when an adjacent child can spare one, or merged away otherwise,
// and any child at minimum occupancy is refilled before descent. Returns
// whether the key was present.
func (tr *Tree) Delete(key value.Value) (bool, error) {
	if key.IsNull() {
		return false, nil
	}
	removed, err := tr.remove(tr.root, key)
	if err != nil {
		return false, err
	}
	if len(tr.root.keys) == 0 && !tr.root.leaf {
		// the root emptied into its single remaining child; shrink height
		tr.root = tr.root.children[0]
	}
	return removed, nil
}

// Remove deletes a single (key, rowID) entry, dropping the key entirely once
// its bucket empties. Returns whether the entry was present.
func (tr *Tree) Remove(key value.Value, rowID int64) (bool, error) {
	if key.IsNull() {
		return false, nil
	}
	n, idx, err := tr.locate(key)
	if err != nil || n == nil {
		return false, err
	}

	bucket := n.buckets[idx]
	pos := -1
	for i, id := range bucket {
		if id == rowID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false, nil
	}
	if len(bucket) == 1 {
		return tr.Delete(key)
	}
	n.buckets[idx] = append(bucket[:pos], bucket[pos+1:]...)
	return true, nil
}

func (tr *Tree) remove(n *node, key value.Value) (bool, error) {
	idx, found, err := n.findKey(key)
	if err != nil {
		return false, err
	}
	if found {
		if n.leaf {
			n.removeAt(idx)
			return true, nil
		}
		return tr.removeFromInternal(n, idx)
	}
	if n.leaf {
		return false, nil
	}

	child := n.children[idx]
	if len(child.keys) < tr.order {
		// child sits at minimum occupancy; refill it before descending.
		// Filling may shift key positions, so re-run the search from n.
		tr.fill(n, idx)
		return tr.remove(n, key)
	}
	return tr.remove(child, key)
}

// removeFromInternal deletes the key at position idx of internal node n. The
// key is swapped with its in-order predecessor (or successor) when the
// corresponding child can lose a key, otherwise the two children around it
// are merged and the deletion continues inside the merged node.
func (tr *Tree) removeFromInternal(n *node, idx int) (bool, error) {
	key := n.keys[idx]
	left, right := n.children[idx], n.children[idx+1]

	switch {
	case len(left.keys) >= tr.order:
		predKey, predBucket := maxEntry(left)
		n.keys[idx] = predKey
		n.buckets[idx] = predBucket
		_, err := tr.remove(left, predKey)
		return true, err
	case len(right.keys) >= tr.order:
		succKey, succBucket := minEntry(right)
		n.keys[idx] = succKey
		n.buckets[idx] = succBucket
		_, err := tr.remove(right, succKey)
		return true, err
	default:
		tr.mergeChildren(n, idx)
		_, err := tr.remove(left, key)
		return true, err
	}
}

// fill brings the child at position idx up from minimum occupancy, borrowing
// from a sibling that can spare a key or merging with one that cannot.
func (tr *Tree) fill(n *node, idx int) {
	switch {
	case idx > 0 && len(n.children[idx-1].keys) >= tr.order:
		tr.borrowFromPrev(n, idx)
	case idx < len(n.keys) && len(n.children[idx+1].keys) >= tr.order:
		tr.borrowFromNext(n, idx)
	case idx < len(n.keys):
		tr.mergeChildren(n, idx)
	default:
		tr.mergeChildren(n, idx-1)
	}
}

func (tr *Tree) borrowFromPrev(n *node, idx int) {
	child, sib := n.children[idx], n.children[idx-1]

	child.keys = slices.Insert(child.keys, 0, n.keys[idx-1])
	child.buckets = slices.Insert(child.buckets, 0, n.buckets[idx-1])

	last := len(sib.keys) - 1
	n.keys[idx-1] = sib.keys[last]
	n.buckets[idx-1] = sib.buckets[last]
	sib.keys = sib.keys[:last]
	sib.buckets = sib.buckets[:last]

	if !child.leaf {
		lastChild := len(sib.children) - 1
		child.children = slices.Insert(child.children, 0, sib.children[lastChild])
		sib.children = sib.children[:lastChild]
	}
}

func (tr *Tree) borrowFromNext(n *node, idx int) {
	child, sib := n.children[idx], n.children[idx+1]

	child.keys = append(child.keys, n.keys[idx])
	child.buckets = append(child.buckets, n.buckets[idx])

	n.keys[idx] = sib.keys[0]
	n.buckets[idx] = sib.buckets[0]
	sib.keys = sib.keys[1:]
	sib.buckets = sib.buckets[1:]

	if !child.leaf {
		child.children = append(child.children, sib.children[0])
		sib.children = sib.children[1:]
	}
}

// mergeChildren folds the child at i+1 and the separator key at i into the
// child at i, leaving n one key and one child shorter.
func (tr *Tree) mergeChildren(n *node, i int) {
	left, right := n.children[i], n.children[i+1]

	left.keys = append(left.keys, n.keys[i])
	left.buckets = append(left.buckets, n.buckets[i])
	left.keys = append(left.keys, right.keys...)
	left.buckets = append(left.buckets, right.buckets...)
	if !left.leaf {
		left.children = append(left.children, right.children...)
	}

	n.removeAt(i)
	n.children = append(n.children[:i+1], n.children[i+2:]...)
}

func maxEntry(n *node) (value.Value, []int64) {
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	last := len(n.keys) - 1
	return n.keys[last], n.buckets[last]
}

func minEntry(n *node) (value.Value, []int64) {
	for !n.leaf {
		n = n.children[0]
	}
	return n.keys[0], n.buckets[0]
}
