// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package routing

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/xornet/sectionchain/chain"
	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sectionproof"
	"github.com/xornet/sectionchain/xorname"
)

func mkID(nodeByte, nameByte byte) section.PublicId {
	var nodeID ids.NodeID
	nodeID[0] = nodeByte
	var name xorname.Name
	name[0] = nameByte
	return section.PublicId{NodeID: nodeID, Name: name}
}

func newChain(t *testing.T, members []section.PublicId, ourID section.PublicId, pfx prefix.Prefix) *chain.Chain {
	t.Helper()
	first := section.New(members, pfx)
	genesis := chain.GenesisPfxInfo{
		FirstInfo:  first,
		GenesisKey: sectionproof.KeyInfo{Prefix: pfx, Version: 0},
	}
	c, err := chain.New(3, ourID, genesis)
	require.NoError(t, err)
	return c
}

func allConnected(members []section.PublicId) Connected {
	conn := make(Connected)
	for _, m := range members {
		conn[m.Name] = true
	}
	return conn
}

// installNeighbour drives info into c as a neighbour SectionInfo via the
// real accumulator/Poll path, signed to quorum by ourMembers (the
// section that is vouching for the neighbour's introduction).
func installNeighbour(t *testing.T, c *chain.Chain, info section.Info, ourMembers []section.PublicId) {
	t.Helper()
	event := chain.SectionInfoEvent(info)
	for _, m := range ourMembers {
		require.NoError(t, c.HandleOpaqueEvent(event, section.Proof{PubID: m}))
	}
	_, applied, err := c.Poll()
	require.NoError(t, err)
	require.True(t, applied)
}

// Own-section target selection (spec.md §8 scenario 4): a Section
// authority whose name falls within our own section returns the rest
// of our members as the delivery group.
func TestTargetsOwnSection(t *testing.T) {
	ourID := mkID(1, 0x80)
	members := []section.PublicId{ourID, mkID(2, 0x80), mkID(3, 0x80)}
	c := newChain(t, members, ourID, prefix.Default())

	peers, dg, err := Targets(c, Section(ourID.Name), allConnected(members))
	require.NoError(t, err)
	require.Len(t, peers, 2)
	require.Equal(t, 2, dg)
	for _, p := range peers {
		require.NotEqual(t, ourID.Name, p)
	}
}

// Foreign/NaeManager target selection (spec.md §8 scenario 5): a
// NaeManager authority whose name falls in a known neighbour section
// routes to candidates walked toward that section.
func TestTargetsForeignNaeManager(t *testing.T) {
	ourPfx := prefix.Default().Pushed(true) // "1"
	ourID := mkID(1, 0x80)
	members := []section.PublicId{ourID, mkID(2, 0x80), mkID(3, 0x80)}
	c := newChain(t, members, ourID, ourPfx)

	neighbourPfx := prefix.Default().Pushed(false) // "0"
	neighbourMembers := []section.PublicId{mkID(4, 0x00), mkID(5, 0x00), mkID(6, 0x00)}
	installNeighbour(t, c, section.New(neighbourMembers, neighbourPfx), members)

	target := mkID(9, 0x00) // name within the neighbour's prefix
	conn := allConnected(append(append([]section.PublicId{}, members...), neighbourMembers...))

	peers, dg, err := Targets(c, NaeManager(target.Name), conn)
	require.NoError(t, err)
	require.NotEmpty(t, peers)
	require.Greater(t, dg, 0)
	for _, p := range peers {
		require.True(t, neighbourPfx.Matches(p))
	}
}

// PrefixSection coverage failure (spec.md §8 scenario 6): when the
// requested prefix is compatible with our own but is not fully covered
// by the sections we know about, routing must fail rather than return
// a partial delivery group.
func TestTargetsPrefixSectionUncoveredFails(t *testing.T) {
	ourPfx := prefix.Default().Pushed(true) // "1"
	ourID := mkID(1, 0x80)
	members := []section.PublicId{ourID, mkID(2, 0x80), mkID(3, 0x80)}
	c := newChain(t, members, ourID, ourPfx)

	// Ask for the whole root namespace ("" prefix); we only know our
	// own half, not the "0" sibling, so coverage must fail.
	_, _, err := Targets(c, PrefixSectionAuthority(prefix.Default()), allConnected(members))
	require.ErrorIs(t, err, ErrCannotRoute)
}

// PrefixSection coverage success: once the sibling section is known,
// the union of both sections' members (minus ourselves) is returned.
func TestTargetsPrefixSectionCoveredSucceeds(t *testing.T) {
	ourPfx := prefix.Default().Pushed(true) // "1"
	ourID := mkID(1, 0x80)
	members := []section.PublicId{ourID, mkID(2, 0x80)}
	c := newChain(t, members, ourID, ourPfx)

	neighbourPfx := prefix.Default().Pushed(false) // "0"
	neighbourMembers := []section.PublicId{mkID(4, 0x00), mkID(5, 0x00)}
	installNeighbour(t, c, section.New(neighbourMembers, neighbourPfx), members)

	peers, dg, err := Targets(c, PrefixSectionAuthority(prefix.Default()), allConnected(members))
	require.NoError(t, err)
	require.Len(t, peers, 3) // ourID's section peer + both neighbour members
	require.Equal(t, 3, dg)
}

func TestDeliveryGroupSize(t *testing.T) {
	require.Equal(t, 0, DeliveryGroupSize(0))
	require.Equal(t, 1, DeliveryGroupSize(1))
	require.Equal(t, 1, DeliveryGroupSize(3))
	require.Equal(t, 2, DeliveryGroupSize(4))
	require.Equal(t, 4, DeliveryGroupSize(10))
}
