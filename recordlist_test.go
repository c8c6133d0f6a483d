// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordListAppendFind(t *testing.T) {
	var l recordList
	l.append(64500, 24, 1)
	l.append(64501, 24, 2)

	idx, ok := l.find(64501, 24, 2)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	_, ok = l.find(64501, 23, 2)
	require.False(t, ok)
	require.Equal(t, 2, l.len())
}

func TestRecordListEraseShiftsDown(t *testing.T) {
	var l recordList
	l.append(1, 8, 1)
	l.append(2, 8, 1)
	l.append(3, 8, 1)

	l.erase(0)
	require.Equal(t, 2, l.len())
	require.Equal(t, uint32(2), l.elems[0].asn)
	require.Equal(t, uint32(3), l.elems[1].asn)
}

func TestRecordListAnyCoversExcludesAS0(t *testing.T) {
	var l recordList
	l.append(0, 24, 1)
	require.False(t, l.anyCovers(0, 16))

	l.append(64500, 24, 1)
	require.True(t, l.anyCovers(64500, 24))
	require.False(t, l.anyCovers(64500, 25))
	require.False(t, l.anyCovers(64501, 24))
}
