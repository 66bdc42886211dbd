// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedstate

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sectionproof"
	"github.com/xornet/sectionchain/xorname"
)

func testMember(b byte) section.PublicId {
	var name xorname.Name
	name[0] = b
	var nodeID ids.NodeID
	nodeID[0] = b
	return section.PublicId{NodeID: nodeID, Name: name}
}

func newTestState() *State {
	members := []section.PublicId{testMember(1), testMember(2), testMember(3)}
	first := section.New(members, prefix.Default())
	genesisKey := sectionproof.KeyInfo{Prefix: prefix.Default(), Version: 0}
	return New(first, genesisKey)
}

func TestPushOurNewInfoExtendsHistoryAndInfos(t *testing.T) {
	s := newTestState()
	members := s.OurInfo().Members()

	next := section.Successor(members, prefix.Default(), s.OurInfo())
	key := sectionproof.KeyInfo{Prefix: prefix.Default(), Version: 1}
	s.PushOurNewInfo(next, key)

	require.Len(t, s.OurInfos(), 2)
	require.True(t, s.OurInfo().Equal(next))
	require.Equal(t, next, s.NewInfo())
	require.Equal(t, 2, s.OurHistory().Len())
	last, ok := s.OurHistory().Last()
	require.True(t, ok)
	require.Equal(t, uint64(1), last.Version)
}

func TestUpdateTheirKnowledgeMonotonic(t *testing.T) {
	s := newTestState()
	pfx := prefix.Default()

	s.UpdateTheirKnowledge(pfx, 5)
	require.Equal(t, uint64(5), s.TheirKnowledge(pfx))

	s.UpdateTheirKnowledge(pfx, 2)
	require.Equal(t, uint64(5), s.TheirKnowledge(pfx), "lower version must not regress knowledge")

	s.UpdateTheirKnowledge(pfx, 9)
	require.Equal(t, uint64(9), s.TheirKnowledge(pfx))
}

func TestUpdateTheirKeysMonotonic(t *testing.T) {
	s := newTestState()
	pfx := prefix.Default()

	s.UpdateTheirKeys(sectionproof.KeyInfo{Prefix: pfx, Version: 3})
	require.Equal(t, uint64(3), s.TheirKeys()[pfx].Version)

	s.UpdateTheirKeys(sectionproof.KeyInfo{Prefix: pfx, Version: 1})
	require.Equal(t, uint64(3), s.TheirKeys()[pfx].Version, "stale key must not overwrite newer one")

	s.UpdateTheirKeys(sectionproof.KeyInfo{Prefix: pfx, Version: 7})
	require.Equal(t, uint64(7), s.TheirKeys()[pfx].Version)
}

func TestNeighbourInfoSetAndRemove(t *testing.T) {
	s := newTestState()
	pfx := prefix.Default().Pushed(true)
	members := []section.PublicId{testMember(9)}
	info := section.New(members, pfx)

	old, existed := s.SetNeighbourInfo(pfx, info)
	require.False(t, existed)
	require.Equal(t, section.Info{}, old)

	_, existed = s.SetNeighbourInfo(pfx, info)
	require.True(t, existed)

	require.Contains(t, s.NeighbourInfos(), pfx)
	s.RemoveNeighbourInfo(pfx)
	require.NotContains(t, s.NeighbourInfos(), pfx)
}

func TestSplitCacheRendezvous(t *testing.T) {
	s := newTestState()
	require.Nil(t, s.GetSplitCache())

	cache := &SplitCache{Info: s.OurInfo(), Proofs: section.NewSet()}
	s.SetSplitCache(cache)
	require.Same(t, cache, s.GetSplitCache())

	taken := s.TakeSplitCache()
	require.Same(t, cache, taken)
	require.Nil(t, s.GetSplitCache())
}

func TestMergingDrain(t *testing.T) {
	s := newTestState()
	a := ids.ID{1}
	b := ids.ID{2}
	s.AddMerging(a)
	s.AddMerging(b)
	require.Len(t, s.Merging(), 2)

	drained := s.ClearMerging()
	require.ElementsMatch(t, []ids.ID{a, b}, drained)
	require.Len(t, s.Merging(), 0)
}

func TestChangeStringer(t *testing.T) {
	require.Equal(t, "None", ChangeNone.String())
	require.Equal(t, "Splitting", ChangeSplitting.String())
	require.Equal(t, "Merging", ChangeMerging.String())
}

func TestGenesisRelatedInfoRoundTrip(t *testing.T) {
	s := newTestState()
	s.ourHistory.Append(sectionproof.KeyInfo{Prefix: prefix.Default(), Version: 1})
	s.ourHistory.Append(sectionproof.KeyInfo{Prefix: prefix.Default().Pushed(true), Version: 2})

	blob, err := s.GetGenesisRelatedInfo()
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	restored := newTestState()
	require.NoError(t, restored.UpdateWithGenesisRelatedInfo(blob))
	require.Equal(t, s.OurHistory().Len(), restored.OurHistory().Len())

	want := s.OurHistory().All()
	got := restored.OurHistory().All()
	for i := range want {
		require.True(t, want[i].Equal(got[i]))
	}
}

func TestGenesisRelatedInfoEmptyBlobIsNoOp(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.UpdateWithGenesisRelatedInfo(nil))
	require.Equal(t, 1, s.OurHistory().Len())
}
