// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import "fmt"

// SourceId identifies the upstream feed a record arrived from. It is an
// opaque handle: only equality and bulk removal via Store.SourceRemove are
// defined over it.
type SourceId uint32

// PfxRecord is a single Route Origin Authorization as seen by the store:
// an ASN is authorized to originate Prefix, or any more specific prefix of
// it up to MaxLen, and it was reported by Source.
//
// Invariants, enforced by callers and not re-validated here: Prefix.Version()
// is V4 or V6; MinLen <= MaxLen <= Prefix.Version().Width(); the bits of
// Prefix beyond MinLen are zero (see IpAddress.Masked).
type PfxRecord struct {
	Asn      uint32
	Prefix   IpAddress
	MinLen   uint8
	MaxLen   uint8
	SourceId SourceId
}

// String renders the record for logging, e.g. "AS64500 10.0.0.0/8-24 src=1".
func (r PfxRecord) String() string {
	return fmt.Sprintf("AS%d %s/%d-%d src=%d", r.Asn, r.Prefix, r.MinLen, r.MaxLen, r.SourceId)
}

// Equal compares the full 5-tuple (prefix, min_len, asn, max_len, source_id),
// the same tuple Store.Add treats as a duplicate. Store.Add and Store.Remove
// do not call it: they match prefix and min_len through the trie and the
// rest through the node's record list.
func (r PfxRecord) Equal(o PfxRecord) bool {
	return r.Asn == o.Asn &&
		r.MinLen == o.MinLen &&
		r.MaxLen == o.MaxLen &&
		r.SourceId == o.SourceId &&
		r.Prefix.Equal(o.Prefix)
}

// dataElem is the stored form inside a trie node: the prefix bits and MinLen
// live on the enclosing TrieNode as (prefix, len), not per element.
type dataElem struct {
	asn      uint32
	maxLen   uint8
	sourceId SourceId
}

func (e dataElem) toRecord(prefix IpAddress, minLen uint8) PfxRecord {
	return PfxRecord{
		Asn:      e.asn,
		Prefix:   prefix,
		MinLen:   minLen,
		MaxLen:   e.maxLen,
		SourceId: e.sourceId,
	}
}

// Outcome is the result of a Store.Add or Store.Remove call.
type Outcome int

const (
	// OutcomeOK means the mutation was applied and a notification fired.
	OutcomeOK Outcome = iota
	// OutcomeDuplicate means Add found an identical 5-tuple already
	// present; no mutation happened and no notification fired.
	OutcomeDuplicate
	// OutcomeNotFound means Remove found no matching record; no mutation
	// happened and no notification fired.
	OutcomeNotFound
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeDuplicate:
		return "DUPLICATE"
	case OutcomeNotFound:
		return "NOT_FOUND"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// State is a BGP Route Origin Validation outcome.
type State int

const (
	// Valid means some covering ROA authorizes this (asn, prefix_len).
	Valid State = iota
	// Invalid means a covering ROA exists but none authorizes this origin
	// or this prefix length.
	Invalid
	// NotFound means no ROA covers this prefix at all.
	NotFound
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Valid:
		return "Valid"
	case Invalid:
		return "Invalid"
	case NotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
