// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sectionproof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xornet/sectionchain/prefix"
)

func TestSliceFrom(t *testing.T) {
	c := New(KeyInfo{Prefix: prefix.Default(), Version: 0})
	c.Append(KeyInfo{Prefix: prefix.Default(), Version: 1})
	c.Append(KeyInfo{Prefix: prefix.Default(), Version: 2})

	require.Equal(t, 3, c.Len())
	require.Equal(t, 2, c.SliceFrom(1).Len())
	require.Equal(t, 0, c.SliceFrom(10).Len())

	last, ok := c.Last()
	require.True(t, ok)
	require.Equal(t, uint64(2), last.Version)
}

func TestContainsKey(t *testing.T) {
	c := New(KeyInfo{Prefix: prefix.Default(), Version: 0})
	require.True(t, c.ContainsKey(KeyInfo{Prefix: prefix.Default(), Version: 0}))
	require.False(t, c.ContainsKey(KeyInfo{Prefix: prefix.Default(), Version: 5}))
}
