// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prefix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xornet/sectionchain/xorname"
)

func TestVersionedOrdering(t *testing.T) {
	a := NewVersioned(1, xorname.Zero, 3)
	b := NewVersioned(1, xorname.Zero, 5)
	require.Negative(t, a.Cmp(b))
	require.Positive(t, b.Cmp(a))
	require.Zero(t, a.Cmp(a))
}

func TestVersionedWithVersion(t *testing.T) {
	v := NewVersioned(2, xorname.Zero, 1).WithVersion(9)
	require.Equal(t, uint64(9), v.Version)
	require.Equal(t, 2, v.BitCount())
}
