// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

// trieNode is one node of a longest-prefix-first binary search trie (LPFST).
// Uniqueness invariant: within one trie, no two nodes share (prefix, len).
//
// parent is a weak back-reference, a lookup shortcut only: ownership runs
// strictly along the left/right tree edges (or from the trie's root field
// for a root node).
type trieNode struct {
	prefix  IpAddress
	len     uint8
	records recordList

	left, right, parent *trieNode
}

// trie is an LPFST over prefixes of one IP version. The zero value is an
// empty trie, ready to use.
type trie struct {
	root *trieNode
}

func (t *trie) empty() bool {
	return t.root == nil
}

// lookupExact descends from the root (or from start, for internal reuse)
// looking for a node whose (prefix, len) exactly equals the query. If none
// exists, it returns the node under which a new (prefix, len) node should be
// inserted, and the level at which that decision was made.
func lookupExact(start *trieNode, prefix IpAddress, length uint8) (node *trieNode, level int, found bool) {
	if start == nil {
		return nil, 0, false
	}
	node = start
	for {
		if node.len == length && node.prefix.Equal(prefix) {
			return node, level, true
		}
		if length <= uint8(level) {
			return node, level, false
		}
		var child *trieNode
		if prefix.Bit(level) == 0 {
			child = node.left
		} else {
			child = node.right
		}
		if child == nil {
			return node, level, false
		}
		node = child
		level++
	}
}

// coveredBy reports whether the first length bits of a and b are identical.
func coveredBy(a, b IpAddress, length uint8) bool {
	for i := 0; i < int(length); i++ {
		if a.Bit(i) != b.Bit(i) {
			return false
		}
	}
	return true
}

// lookupLongestFrom descends from start (examined at the given level)
// returning the first node along the query's bit-path whose (prefix,
// len) covers (queryLen, query): that is, node.len <= queryLen and the
// node's own prefix bits match the query over node.len bits. The LPFST
// heap property (longer, more specific prefixes bubble toward the root; see
// insert) combined with the BST bit discipline guarantees this single
// descent finds it without backtracking: once level reaches queryLen no
// deeper node can cover the query either, since node.len <= level would be
// required of every node encountered beyond that point.
func lookupLongestFrom(start *trieNode, query IpAddress, queryLen uint8, level int) (*trieNode, int) {
	node := start
	for node != nil {
		if node.len <= queryLen && coveredBy(node.prefix, query, node.len) {
			return node, level
		}
		if level >= int(queryLen) {
			return nil, level
		}
		if query.Bit(level) == 0 {
			node = node.left
		} else {
			node = node.right
		}
		level++
	}
	return nil, level
}

func lookupLongest(root *trieNode, query IpAddress, queryLen uint8) (*trieNode, int) {
	if root == nil {
		return nil, 0
	}
	return lookupLongestFrom(root, query, queryLen, 0)
}

// insert attaches newNode under parent on the side dictated by
// newNode.prefix.Bit(level), then restores the LPFST heap property by
// swapping payloads (not node identities) up the tree while the newly
// attached node's len exceeds its parent's: this bubbles the longer, more
// specific prefix toward the root, so validation walks encounter the most
// specific covering prefix as early as possible.
func (t *trie) insert(parent, newNode *trieNode, level int) {
	newNode.parent = parent
	if newNode.prefix.Bit(level) == 0 {
		parent.left = newNode
	} else {
		parent.right = newNode
	}

	cur := newNode
	for cur.parent != nil && cur.len > cur.parent.len {
		p := cur.parent
		cur.prefix, p.prefix = p.prefix, cur.prefix
		cur.len, p.len = p.len, cur.len
		cur.records, p.records = p.records, cur.records
		cur = p
	}
}

// setRoot installs node as the trie's root. Used both for the first insert
// into an empty trie and by Store when it must place a record directly.
func (t *trie) setRoot(node *trieNode) {
	node.parent = nil
	t.root = node
}

// detach unlinks a leaf node from its parent. It must only be called on a
// node with no children.
func detach(n *trieNode) {
	if p := n.parent; p != nil {
		if p.left == n {
			p.left = nil
		} else {
			p.right = nil
		}
	}
	n.parent = nil
}

// remove unlinks holder from the trie, rotating a child's payload up to
// fill the hole when holder has children, and returns the physical node
// object that ended up detached (always a former leaf, with an empty
// records list). If the unlinked node is holder itself, holder was a leaf.
//
// When both children are present, the child with the larger len is
// promoted, preserving the heap property: that side already held the more
// specific of the two subtrees' top prefixes.
func (t *trie) remove(holder *trieNode) *trieNode {
	for {
		if holder.left == nil && holder.right == nil {
			if holder == t.root {
				t.root = nil
			}
			holder.records = recordList{}
			detach(holder)
			return holder
		}

		var donor *trieNode
		switch {
		case holder.left != nil && holder.right != nil:
			if holder.left.len >= holder.right.len {
				donor = holder.left
			} else {
				donor = holder.right
			}
		case holder.left != nil:
			donor = holder.left
		default:
			donor = holder.right
		}

		holder.prefix = donor.prefix
		holder.len = donor.len
		holder.records = donor.records

		holder = donor
	}
}

// sweepSource walks the whole trie, calling onRemove once for every record
// tagged with sourceID and erasing each one as it goes. onFree is called
// once per trieNode t.remove physically detaches, so the caller can release
// its allocator reservation — every call to t.remove destroys exactly one
// node, whether or not it returns the node passed in.
//
// A node that loses its last record is removed with t.remove. When that
// rotates a child's payload up into the same node object, the scan restarts
// on that object because its payload just changed; when the node itself was
// detached (the leaf case), this branch is done and recursion does not
// continue past it, since a leaf has no children to recurse into anyway.
func (t *trie) sweepSource(sourceID SourceId, onRemove func(PfxRecord), onFree func(*trieNode)) {
	if t.root != nil {
		t.sweepNode(t.root, sourceID, onRemove, onFree)
	}
}

func (t *trie) sweepNode(node *trieNode, sourceID SourceId, onRemove func(PfxRecord), onFree func(*trieNode)) {
	for {
		i := 0
		for i < node.records.len() {
			e := node.records.elems[i]
			if e.sourceId != sourceID {
				i++
				continue
			}
			onRemove(e.toRecord(node.prefix, node.len))
			node.records.erase(i)
		}

		if node.records.len() > 0 {
			break
		}
		removed := t.remove(node)
		onFree(removed)
		if removed == node {
			return
		}
		// rotated in from a child: node's payload changed, rescan it.
	}

	if node.left != nil {
		t.sweepNode(node.left, sourceID, onRemove, onFree)
	}
	if node.right != nil {
		t.sweepNode(node.right, sourceID, onRemove, onFree)
	}
}

// drain empties the trie entirely, calling onRemove once per surviving
// record and onFree once per destroyed node. It is the bulk counterpart of
// repeatedly erasing every record at the root and removing the node once
// empty, used by Store.Close.
func (t *trie) drain(onRemove func(PfxRecord), onFree func(*trieNode)) {
	for t.root != nil {
		root := t.root
		for i := 0; i < root.records.len(); i++ {
			onRemove(root.records.elems[i].toRecord(root.prefix, root.len))
		}
		onFree(t.remove(root))
	}
}
