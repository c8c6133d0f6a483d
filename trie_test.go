// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pfx(s string) IpAddress { return MustParseAddr(s) }

func newLeaf(prefixStr string, length uint8, asn uint32, maxLen uint8, src SourceId) *trieNode {
	n := &trieNode{prefix: pfx(prefixStr), len: length}
	n.records.append(asn, maxLen, src)
	return n
}

func TestTrieInsertBubblesLongerPrefixUp(t *testing.T) {
	var tr trie
	root := newLeaf("10.0.0.0", 8, 64500, 8, 1)
	tr.setRoot(root)

	parent, level, found := lookupExact(tr.root, pfx("10.1.0.0"), 16)
	require.False(t, found)
	require.Equal(t, tr.root, parent)

	child := newLeaf("10.1.0.0", 16, 64501, 16, 1)
	tr.insert(parent, child, level)

	// the longer prefix (len 16) must end up at the root.
	require.Equal(t, uint8(16), tr.root.len)
	require.True(t, tr.root.prefix.Equal(pfx("10.1.0.0")))
	require.NotNil(t, tr.root.left)
	require.Equal(t, uint8(8), tr.root.left.len)
}

func TestTrieLookupExactFindsNode(t *testing.T) {
	var tr trie
	tr.setRoot(newLeaf("192.168.0.0", 16, 64500, 24, 1))

	node, _, found := lookupExact(tr.root, pfx("192.168.0.0"), 16)
	require.True(t, found)
	require.Equal(t, tr.root, node)

	_, _, found = lookupExact(tr.root, pfx("192.168.0.0"), 24)
	require.False(t, found)
}

func TestTrieLookupLongestPrefersMoreSpecific(t *testing.T) {
	var tr trie
	root := newLeaf("10.0.0.0", 8, 64500, 8, 1)
	tr.setRoot(root)
	parent, level, _ := lookupExact(tr.root, pfx("10.1.0.0"), 16)
	tr.insert(parent, newLeaf("10.1.0.0", 16, 64501, 16, 1), level)

	node, _ := lookupLongest(tr.root, pfx("10.1.0.0"), 16)
	require.NotNil(t, node)
	require.Equal(t, uint8(16), node.len)

	node, _ = lookupLongest(tr.root, pfx("10.2.0.0"), 16)
	require.NotNil(t, node)
	require.Equal(t, uint8(8), node.len)

	node, _ = lookupLongest(tr.root, pfx("11.0.0.0"), 16)
	require.Nil(t, node)
}

func TestTrieRemoveLeafDetaches(t *testing.T) {
	var tr trie
	// Insert the longer prefix first so the shorter one attaches below it
	// as a true leaf, with no rotation (8 < 16, so insert's swap condition
	// never fires).
	root := newLeaf("10.0.0.0", 16, 64500, 16, 1)
	tr.setRoot(root)
	parent, level, _ := lookupExact(tr.root, pfx("10.0.0.0"), 8)
	leaf := newLeaf("10.0.0.0", 8, 64501, 8, 1)
	tr.insert(parent, leaf, level)
	require.Same(t, leaf, tr.root.left)

	node, _, found := lookupExact(tr.root, pfx("10.0.0.0"), 8)
	require.True(t, found)
	removed := tr.remove(node)
	require.Equal(t, node, removed)
	require.Nil(t, tr.root.left)
	require.Nil(t, tr.root.right)
}

func TestTrieRemoveRootPromotesChild(t *testing.T) {
	var tr trie
	root := newLeaf("10.0.0.0", 8, 64500, 8, 1)
	tr.setRoot(root)
	parent, level, _ := lookupExact(tr.root, pfx("10.1.0.0"), 16)
	tr.insert(parent, newLeaf("10.1.0.0", 16, 64501, 16, 1), level)

	// root now holds the /16 (longer-wins rotation); removing it should
	// promote the /8 back up rather than emptying the trie.
	removed := tr.remove(tr.root)
	require.NotNil(t, tr.root)
	require.Equal(t, uint8(8), tr.root.len)
	require.NotEqual(t, tr.root, removed)
}

func TestTrieDrainEmitsEveryRecordAndEmptiesTrie(t *testing.T) {
	var tr trie
	root := newLeaf("10.0.0.0", 8, 64500, 8, 1)
	tr.setRoot(root)
	parent, level, _ := lookupExact(tr.root, pfx("10.1.0.0"), 16)
	tr.insert(parent, newLeaf("10.1.0.0", 16, 64501, 16, 1), level)

	var drained []PfxRecord
	tr.drain(func(r PfxRecord) { drained = append(drained, r) }, func(*trieNode) {})

	require.Nil(t, tr.root)
	require.Len(t, drained, 2)
}

func TestTrieSweepSourceRemovesOnlyMatchingRecords(t *testing.T) {
	var tr trie
	root := &trieNode{prefix: pfx("10.0.0.0"), len: 8}
	root.records.append(64500, 8, 1)
	root.records.append(64500, 8, 2)
	tr.setRoot(root)

	var removed []PfxRecord
	tr.sweepSource(1, func(r PfxRecord) { removed = append(removed, r) }, func(*trieNode) {})

	require.Len(t, removed, 1)
	require.Equal(t, SourceId(1), removed[0].SourceId)
	require.NotNil(t, tr.root)
	require.Equal(t, 1, tr.root.records.len())

	tr.sweepSource(2, func(r PfxRecord) { removed = append(removed, r) }, func(*trieNode) {})
	require.Nil(t, tr.root)
}
