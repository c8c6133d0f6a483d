// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/inconshreveable/log15"
)

// Fetcher is the seam between a Source and whatever actually speaks the RTR
// wire protocol (or reads a file, or polls an HTTP endpoint): it hands back
// one full-table snapshot per call. This package never frames or parses RTR
// PDUs itself; a Fetcher is free to.
type Fetcher interface {
	Fetch(ctx context.Context) ([]PfxRecord, error)
}

// Source adapts one upstream feed, identified by a single SourceId, into a
// Store's Add/Remove/SourceRemove surface. It tracks the set of records it
// last applied so that Sync can emit a scoped diff instead of a blind
// withdraw-and-reload.
type Source struct {
	id     SourceId
	store  *Store
	logger log15.Logger

	mu      sync.Mutex
	current map[string]PfxRecord
}

// NewSource returns a Source bound to store under sourceID. The caller picks
// sourceID and is responsible for keeping it unique across the Sources
// feeding one Store.
func NewSource(store *Store, sourceID SourceId, logger log15.Logger) *Source {
	if logger == nil {
		logger = log15.New()
	}
	return &Source{
		id:      sourceID,
		store:   store,
		logger:  logger.New("source_id", sourceID),
		current: make(map[string]PfxRecord),
	}
}

// ID returns the SourceId this Source tags every record with.
func (s *Source) ID() SourceId {
	return s.id
}

func recordKey(r PfxRecord) string {
	return fmt.Sprintf("%s/%d-%d/%d", r.Prefix, r.MinLen, r.MaxLen, r.Asn)
}

// Sync applies a full-table refresh: every record in batch not already
// attributed to this source is added, and every record currently
// attributed to this source but absent from batch is removed — mirroring
// RTR's Cache Reset / Serial Notify resynchronization without the
// withdraw-everything-then-reload notification burst a blind Reset-and-Sync
// pair would produce.
func (s *Source) Sync(ctx context.Context, batch []PfxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]PfxRecord, len(batch))
	for _, r := range batch {
		r.SourceId = s.id
		next[recordKey(r)] = r
	}

	dropped, added := 0, 0
	for key, r := range s.current {
		if _, ok := next[key]; ok {
			continue
		}
		if _, err := s.store.Remove(r); err != nil {
			return wrapf(err, "pfxstore: source %d sync remove %s", s.id, r)
		}
		dropped++
	}
	for key, r := range next {
		if _, ok := s.current[key]; ok {
			continue
		}
		if _, err := s.store.Add(r); err != nil {
			return wrapf(err, "pfxstore: source %d sync add %s", s.id, r)
		}
		added++
	}

	s.current = next
	s.logger.Info("pfxstore: source synced", "added", added, "dropped", dropped, "total", len(next))
	return nil
}

// Reset unconditionally withdraws every record this Source has contributed,
// for use when the upstream signals a hard Cache Reset ahead of a fresh
// full table that Sync has not seen yet.
func (s *Source) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SourceRemove(s.id); err != nil {
		return wrapf(err, "pfxstore: source %d reset", s.id)
	}
	s.current = make(map[string]PfxRecord)
	return nil
}

// ApplyPDU is the steady-state increment path: one Add or Remove per
// Serial Notify-driven update, tagged with this Source's id.
func (s *Source) ApplyPDU(rec PfxRecord, added bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.SourceId = s.id
	key := recordKey(rec)
	if added {
		if _, err := s.store.Add(rec); err != nil {
			return wrapf(err, "pfxstore: source %d apply add %s", s.id, rec)
		}
		s.current[key] = rec
		return nil
	}

	if _, err := s.store.Remove(rec); err != nil {
		return wrapf(err, "pfxstore: source %d apply remove %s", s.id, rec)
	}
	delete(s.current, key)
	return nil
}

// StaticFetcher reads a Routinator-style ROA JSON document once per Fetch
// call: {"roas": [{"prefix": "192.0.2.0/24", "maxLength": 24, "asn": "AS65001"}, ...]}
// ASN is accepted as either a bare number or an "AS..."-prefixed string.
type StaticFetcher struct {
	path string
}

// NewStaticFetcher returns a Fetcher reading ROAs from the JSON file at path.
func NewStaticFetcher(path string) *StaticFetcher {
	return &StaticFetcher{path: path}
}

func (f *StaticFetcher) Fetch(ctx context.Context) ([]PfxRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, wrapf(err, "pfxstore: read ROA file %s", f.path)
	}

	var doc struct {
		ROAs []struct {
			Prefix    string `json:"prefix"`
			MaxLength int    `json:"maxLength"`
			ASN       any    `json:"asn"`
		} `json:"roas"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, wrapf(err, "pfxstore: parse ROA file %s", f.path)
	}

	records := make([]PfxRecord, 0, len(doc.ROAs))
	for _, roa := range doc.ROAs {
		prefix, err := netip.ParsePrefix(roa.Prefix)
		if err != nil {
			continue
		}
		prefix = prefix.Masked()

		asn, ok := parseASN(roa.ASN)
		if !ok {
			continue
		}

		addr, err := AddrFromNetip(prefix.Addr())
		if err != nil {
			continue
		}
		minLen := uint8(prefix.Bits())
		records = append(records, PfxRecord{
			Asn:    asn,
			Prefix: addr,
			MinLen: minLen,
			MaxLen: uint8(roa.MaxLength),
		})
	}
	return records, nil
}

func parseASN(v any) (uint32, bool) {
	switch t := v.(type) {
	case string:
		t = strings.TrimPrefix(strings.TrimPrefix(t, "AS"), "as")
		n, err := strconv.ParseUint(t, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(n), true
	case float64:
		return uint32(t), true
	default:
		return 0, false
	}
}

// PollingSource re-Fetches on a fixed interval and Syncs the result into a
// Source, logging (rather than returning) per-tick errors so one bad poll
// does not tear down the whole feed.
type PollingSource struct {
	source   *Source
	fetcher  Fetcher
	interval time.Duration
	logger   log15.Logger
}

// NewPollingSource returns a PollingSource driving src from fetcher every
// interval, once Run is called.
func NewPollingSource(src *Source, fetcher Fetcher, interval time.Duration, logger log15.Logger) *PollingSource {
	if logger == nil {
		logger = log15.New()
	}
	return &PollingSource{source: src, fetcher: fetcher, interval: interval, logger: logger}
}

// Run blocks, polling until ctx is done.
func (p *PollingSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			batch, err := p.fetcher.Fetch(ctx)
			if err != nil {
				p.logger.Error("pfxstore: poll fetch failed", "err", err)
				continue
			}
			if err := p.source.Sync(ctx, batch); err != nil {
				p.logger.Error("pfxstore: poll sync failed", "err", err)
			}
		}
	}
}
