// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package routing implements target selection: given a destination
// authority, the set of peers a message should be forwarded to and
// the delivery-group size that makes that forward byzantine-tolerant
// (spec.md §4.9). There is no close analogue for this algorithm in the
// teacher's own router package (which dispatches by chain ID, not XOR
// distance); its structure follows the teacher's router idiom
// (a small struct of pure functions over a read-only Chain view) while
// the algorithm itself is grounded directly in the specification.
package routing

import (
	"errors"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/xorname"
)

// ErrCannotRoute is returned when target selection cannot assemble a
// delivery group: the destination prefix is not fully covered by known
// sections, or there are not enough connected peers.
var ErrCannotRoute = errors.New("routing: cannot route")

// AuthorityKind tags the variants of Authority (spec.md §9 "dynamic
// dispatch over Authority variants... tagged union").
type AuthorityKind int

const (
	AuthorityManagedNode AuthorityKind = iota
	AuthorityClient
	AuthorityClientManager
	AuthorityNaeManager
	AuthorityNodeManager
	AuthoritySection
	AuthorityPrefixSection
)

// Authority names a routing destination. Only the fields relevant to
// Kind are populated by a caller.
type Authority struct {
	Kind AuthorityKind

	Name          xorname.Name // ManagedNode / ClientManager / NaeManager / NodeManager / Section
	ProxyNodeName xorname.Name // Client
	Prefix        prefix.Prefix // PrefixSection
}

// ManagedNode builds a ManagedNode authority.
func ManagedNode(name xorname.Name) Authority {
	return Authority{Kind: AuthorityManagedNode, Name: name}
}

// Client builds a Client authority routed via its proxy node.
func Client(proxyNodeName xorname.Name) Authority {
	return Authority{Kind: AuthorityClient, ProxyNodeName: proxyNodeName}
}

// Section builds a Section authority.
func Section(name xorname.Name) Authority {
	return Authority{Kind: AuthoritySection, Name: name}
}

// NaeManager builds a NaeManager authority.
func NaeManager(name xorname.Name) Authority {
	return Authority{Kind: AuthorityNaeManager, Name: name}
}

// NodeManager builds a NodeManager authority.
func NodeManager(name xorname.Name) Authority {
	return Authority{Kind: AuthorityNodeManager, Name: name}
}

// ClientManager builds a ClientManager authority.
func ClientManager(name xorname.Name) Authority {
	return Authority{Kind: AuthorityClientManager, Name: name}
}

// PrefixSectionAuthority builds a PrefixSection authority.
func PrefixSectionAuthority(p prefix.Prefix) Authority {
	return Authority{Kind: AuthorityPrefixSection, Prefix: p}
}

// DeliveryGroupSize returns the ceiling of n/3, the byzantine-tolerant
// forward width for a section of n members (spec.md §6).
func DeliveryGroupSize(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 2) / 3
}
