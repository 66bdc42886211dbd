// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sectionproof implements the SectionProofChain: an
// append-only sequence of section public keys, each provable from the
// previous, giving trust transfer across churn (spec.md §3, §4.3).
package sectionproof

import (
	"github.com/luxfi/crypto/bls"

	"github.com/xornet/sectionchain/prefix"
)

// KeyInfo names a section's public key at a given (prefix, version).
type KeyInfo struct {
	Prefix  prefix.Prefix
	Version uint64
	Key     *bls.PublicKey
}

// Equal compares KeyInfo by (prefix, version); the key itself is
// determined by the section at that version, so two KeyInfos that
// agree on prefix/version necessarily agree on the key in a
// correctly-operating network.
func (k KeyInfo) Equal(other KeyInfo) bool {
	return k.Prefix.Equal(other.Prefix) && k.Version == other.Version
}

// Chain is the ordered sequence of KeyInfo entries. Each entry is
// trusted to have been signed by quorum of the previous entry's
// section — that property is established by the Chain state machine
// when it extends this type (section/info.go's predecessor-hash chain
// establishes the SectionInfo side; this type carries only the public
// keys needed to verify messages once trust has been transferred).
type Chain struct {
	entries []KeyInfo
}

// New builds a Chain starting from a single genesis key.
func New(genesis KeyInfo) Chain {
	return Chain{entries: []KeyInfo{genesis}}
}

// Append extends the chain with the next key.
func (c *Chain) Append(k KeyInfo) {
	c.entries = append(c.entries, k)
}

// Last returns the most recent key, and false if the chain is empty.
func (c Chain) Last() (KeyInfo, bool) {
	if len(c.entries) == 0 {
		return KeyInfo{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// SliceFrom returns the suffix of the chain starting at index from,
// clamped to the chain's bounds. Used by Chain.Prove to hand a peer
// only the minimal proof they need (spec.md §4.8).
func (c Chain) SliceFrom(from int) Chain {
	if from < 0 {
		from = 0
	}
	if from >= len(c.entries) {
		return Chain{}
	}
	out := make([]KeyInfo, len(c.entries)-from)
	copy(out, c.entries[from:])
	return Chain{entries: out}
}

// Len returns the number of entries.
func (c Chain) Len() int { return len(c.entries) }

// All returns every KeyInfo in the chain, oldest first.
func (c Chain) All() []KeyInfo { return c.entries }

// ContainsKey reports whether any entry's (prefix, version) matches k.
func (c Chain) ContainsKey(k KeyInfo) bool {
	for _, e := range c.entries {
		if e.Equal(k) {
			return true
		}
	}
	return false
}
