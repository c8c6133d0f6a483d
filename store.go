// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import (
	"sync"

	"github.com/inconshreveable/log15"
)

// UpdateCallback is invoked exactly once per effective mutation of a Store:
// once per Add that returns OutcomeOK, once per Remove that returns
// OutcomeOK, once per record purged by SourceRemove, and once per record
// still present when Close runs.
//
// During Add/Remove the callback runs after the write lock has been
// released. During SourceRemove and Close it runs while the write lock is
// still held, to keep those bulk operations atomic from every other
// caller's point of view — an UpdateCallback MUST NOT call back into Add,
// Remove, Validate or SourceRemove on the same Store, or it will deadlock.
type UpdateCallback func(store *Store, record PfxRecord, added bool)

// Store is an in-memory, concurrency-safe prefix origin store: two LPFST
// tries (one per IP version) behind a single reader/writer lock, with
// Add/Remove/Validate/SourceRemove as its mutation and query surface.
//
// The zero value is not ready to use; construct a Store with NewStore.
type Store struct {
	mu sync.RWMutex

	v4, v6       trie
	liveRecords4 int
	liveRecords6 int

	notify    UpdateCallback
	logger    log15.Logger
	metrics   *Metrics
	allocator Allocator
}

// NewStore builds a ready-to-use Store. Without options it has no notifier,
// an unbounded allocator, metrics disabled, and logs through log15.New().
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger:    log15.New(),
		allocator: unboundedAllocator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) trieFor(v Version) *trie {
	if v == V4 {
		return &s.v4
	}
	return &s.v6
}

func (s *Store) bumpLive(v Version, delta int) {
	if v == V4 {
		s.liveRecords4 += delta
		s.metrics.setLiveRecords(V4, s.liveRecords4)
	} else {
		s.liveRecords6 += delta
		s.metrics.setLiveRecords(V6, s.liveRecords6)
	}
}

func (s *Store) newNode(record PfxRecord) (*trieNode, error) {
	if err := s.allocator.Reserve(); err != nil {
		return nil, wrapf(err, "pfxstore: allocate node for %s", record)
	}
	n := &trieNode{prefix: record.Prefix, len: record.MinLen}
	n.records.append(record.Asn, record.MaxLen, record.SourceId)
	return n, nil
}

func (s *Store) freeNode(*trieNode) {
	s.allocator.Release()
}

// Add inserts record. It returns OutcomeDuplicate, without mutating
// anything, if an identical (prefix, min_len, asn, max_len, source_id)
// 5-tuple is already present.
func (s *Store) Add(record PfxRecord) (Outcome, error) {
	s.mu.Lock()

	t := s.trieFor(record.Prefix.Version())

	if t.empty() {
		node, err := s.newNode(record)
		if err != nil {
			s.mu.Unlock()
			return OutcomeOK, err
		}
		t.setRoot(node)
		s.bumpLive(record.Prefix.Version(), 1)
		s.mu.Unlock()

		s.logger.Debug("pfxstore: add created root", "record", record)
		s.afterAdd(record)
		return OutcomeOK, nil
	}

	parent, level, found := lookupExact(t.root, record.Prefix, record.MinLen)
	if found {
		if _, ok := parent.records.find(record.Asn, record.MaxLen, record.SourceId); ok {
			s.mu.Unlock()
			s.logger.Debug("pfxstore: add duplicate", "record", record)
			s.metrics.observeDuplicate()
			return OutcomeDuplicate, nil
		}

		parent.records.append(record.Asn, record.MaxLen, record.SourceId)
		s.bumpLive(record.Prefix.Version(), 1)
		s.mu.Unlock()

		s.logger.Debug("pfxstore: add appended to existing node", "record", record)
		s.afterAdd(record)
		return OutcomeOK, nil
	}

	node, err := s.newNode(record)
	if err != nil {
		s.mu.Unlock()
		return OutcomeOK, err
	}
	t.insert(parent, node, level)
	s.bumpLive(record.Prefix.Version(), 1)
	s.mu.Unlock()

	s.logger.Debug("pfxstore: add created node", "record", record, "level", level)
	s.afterAdd(record)
	return OutcomeOK, nil
}

func (s *Store) afterAdd(record PfxRecord) {
	s.metrics.observeAdd()
	if s.notify != nil {
		s.notify(s, record, true)
	}
}

// Remove deletes the (prefix, min_len, asn, max_len, source_id) 5-tuple
// identified by record. It returns OutcomeNotFound, without mutating
// anything, if no such record is present.
func (s *Store) Remove(record PfxRecord) (Outcome, error) {
	s.mu.Lock()

	t := s.trieFor(record.Prefix.Version())
	node, _, found := lookupExact(t.root, record.Prefix, record.MinLen)
	if !found {
		s.mu.Unlock()
		s.logger.Debug("pfxstore: remove not found (no such node)", "record", record)
		s.metrics.observeNotFound()
		return OutcomeNotFound, nil
	}

	index, ok := node.records.find(record.Asn, record.MaxLen, record.SourceId)
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("pfxstore: remove not found (no such record)", "record", record)
		s.metrics.observeNotFound()
		return OutcomeNotFound, nil
	}

	node.records.erase(index)
	if node.records.len() == 0 {
		removed := t.remove(node)
		s.freeNode(removed)
	}
	s.bumpLive(record.Prefix.Version(), -1)
	s.mu.Unlock()

	s.logger.Debug("pfxstore: remove ok", "record", record)
	s.metrics.observeRemove()
	if s.notify != nil {
		s.notify(s, record, false)
	}
	return OutcomeOK, nil
}

// Validate decides whether asn is authorized to originate prefix/prefixLen
// against the currently loaded ROAs.
func (s *Store) Validate(asn uint32, prefix IpAddress, prefixLen uint8) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.trieFor(prefix.Version())
	if t.empty() {
		s.metrics.observeValidate(NotFound)
		return NotFound, nil
	}

	node, level := lookupLongest(t.root, prefix, prefixLen)
	if node == nil {
		s.metrics.observeValidate(NotFound)
		return NotFound, nil
	}

	for {
		if node.records.anyCovers(asn, prefixLen) {
			s.metrics.observeValidate(Valid)
			return Valid, nil
		}

		// A covering node at level == width (a fully-specific host query)
		// has no bit left to branch on: no deeper node could cover it
		// either, so there is nothing more to check.
		if level >= prefix.Version().Width() {
			s.metrics.observeValidate(Invalid)
			return Invalid, nil
		}

		var child *trieNode
		if prefix.Bit(level) == 0 {
			child = node.left
		} else {
			child = node.right
		}
		node, level = lookupLongestFrom(child, prefix, prefixLen, level+1)
		if node == nil {
			s.metrics.observeValidate(Invalid)
			return Invalid, nil
		}
	}
}

// SourceRemove withdraws every record tagged with sourceID from both tries,
// as a single atomic sweep per trie: the update callback, if any, fires
// once per purged record while the write lock is still held.
func (s *Store) SourceRemove(sourceID SourceId) error {
	for _, v := range [...]Version{V4, V6} {
		s.mu.Lock()
		t := s.trieFor(v)
		removed := 0
		t.sweepSource(sourceID, func(rec PfxRecord) {
			removed++
			s.metrics.observeRemove()
			if s.notify != nil {
				s.notify(s, rec, false)
			}
		}, s.freeNode)
		if removed > 0 {
			s.bumpLive(v, -removed)
		}
		s.mu.Unlock()

		if removed > 0 {
			s.logger.Info("pfxstore: source removed", "source_id", sourceID, "version", v, "records", removed)
		}
	}
	return nil
}

// Close drains both tries, notifying the observer of every surviving
// record as a removal, while the write lock is held throughout. A Store is
// not usable after Close returns.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range [...]Version{V4, V6} {
		t := s.trieFor(v)
		t.drain(func(rec PfxRecord) {
			s.metrics.observeRemove()
			if s.notify != nil {
				s.notify(s, rec, false)
			}
		}, s.freeNode)
		s.bumpLive(v, -s.liveRecordsFor(v))
	}
	s.logger.Info("pfxstore: store closed")
	return nil
}

func (s *Store) liveRecordsFor(v Version) int {
	if v == V4 {
		return s.liveRecords4
	}
	return s.liveRecords6
}
