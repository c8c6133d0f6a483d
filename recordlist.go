// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

// recordList is the dynamic list of dataElem attached to one trie node.
// Order is not semantically meaningful but is stable across non-mutating
// operations: Erase shifts the tail down rather than swapping the last
// element into the hole.
type recordList struct {
	elems []dataElem
}

// append pushes a new element at the end.
func (l *recordList) append(asn uint32, maxLen uint8, sourceId SourceId) {
	l.elems = append(l.elems, dataElem{asn: asn, maxLen: maxLen, sourceId: sourceId})
}

// find returns the index of the first element matching the
// (asn, maxLen, sourceId) triple, and whether one was found.
func (l *recordList) find(asn uint32, maxLen uint8, sourceId SourceId) (int, bool) {
	for i, e := range l.elems {
		if e.asn == asn && e.maxLen == maxLen && e.sourceId == sourceId {
			return i, true
		}
	}
	return 0, false
}

// erase removes the element at index, shifting later elements down by one
// to preserve their relative order.
func (l *recordList) erase(index int) {
	l.elems = append(l.elems[:index], l.elems[index+1:]...)
}

// anyCovers reports whether some element authorizes asn to originate a
// prefix of length queryLen. AS0 (asn == 0) never authorizes: AS0 ROAs exist
// to signal that a prefix must not be originated by any AS at all.
func (l *recordList) anyCovers(asn uint32, queryLen uint8) bool {
	for _, e := range l.elems {
		if e.asn != 0 && e.asn == asn && queryLen <= e.maxLen {
			return true
		}
	}
	return false
}

// len reports the number of elements currently held.
func (l *recordList) len() int {
	return len(l.elems)
}
