// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package section

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/xorname"
)

func testMember(b byte) PublicId {
	var name xorname.Name
	name[0] = b
	var nodeID ids.NodeID
	nodeID[0] = b
	return PublicId{NodeID: nodeID, Name: name}
}

func TestSuccessorVersioning(t *testing.T) {
	members := []PublicId{testMember(1), testMember(2), testMember(3)}
	first := New(members, prefix.Default())
	require.Equal(t, uint64(0), first.Version())

	next := Successor(members, prefix.Default(), first)
	require.True(t, next.IsSuccessorOf(first))
	require.Equal(t, uint64(1), next.Version())
}

func TestSuccessorRejectsWrongPredecessor(t *testing.T) {
	members := []PublicId{testMember(1)}
	a := New(members, prefix.Default())
	b := New([]PublicId{testMember(2)}, prefix.Default())
	// a and b are independent geneses; a successor of one is not a
	// successor of the other even with matching version arithmetic.
	succ := Successor(members, prefix.Default(), a)
	require.False(t, succ.IsSuccessorOf(b))
}

func TestQuorumThreshold(t *testing.T) {
	members := []PublicId{testMember(1), testMember(2), testMember(3)}
	info := New(members, prefix.Default())

	proofs := NewSet()
	proofs.AddProof(Proof{PubID: members[0]})
	require.False(t, proofs.IsQuorum(info))

	proofs.AddProof(Proof{PubID: members[1]})
	require.True(t, proofs.IsQuorum(info))
	require.False(t, proofs.IsTotalConsensus(info))

	proofs.AddProof(Proof{PubID: members[2]})
	require.True(t, proofs.IsTotalConsensus(info))
}

func TestDuplicateInsertObservable(t *testing.T) {
	proofs := NewSet()
	m := testMember(1)
	require.True(t, proofs.AddProof(Proof{PubID: m}))
	require.False(t, proofs.AddProof(Proof{PubID: m}))
}

func TestMembersDeduplicatedAndSorted(t *testing.T) {
	members := []PublicId{testMember(3), testMember(1), testMember(1), testMember(2)}
	info := New(members, prefix.Default())
	require.Len(t, info.Members(), 3)
	for i := 1; i < len(info.Members()); i++ {
		require.True(t, info.Members()[i-1].Less(info.Members()[i]))
	}
}
