// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sharedstate holds a node's per-section view: its own section
// history, neighbour sections, trust bookkeeping, and the transient
// split/merge state (spec.md §3 "SharedState").
package sharedstate

import (
	"github.com/luxfi/ids"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sectionproof"
)

// Change names the in-progress prefix change, if any.
type Change int

const (
	ChangeNone Change = iota
	ChangeSplitting
	ChangeMerging
)

func (c Change) String() string {
	switch c {
	case ChangeSplitting:
		return "Splitting"
	case ChangeMerging:
		return "Merging"
	default:
		return "None"
	}
}

// SplitCache holds a sibling SectionInfo received before its pair, kept
// until the other arrives so both can be installed together in the
// order that makes the sibling validate as a neighbour (spec.md §4.5).
type SplitCache struct {
	Info   section.Info
	Proofs section.Set
}

// State is a node's view of the section graph.
type State struct {
	ourInfos        []section.Info
	newInfo         section.Info
	neighbourInfos  map[prefix.Prefix]section.Info
	theirKeys       map[prefix.Prefix]sectionproof.KeyInfo
	theirKnowledge  map[prefix.Prefix]uint64
	ourHistory      sectionproof.Chain
	merging         map[ids.ID]struct{}
	splitCache      *SplitCache
	Change          Change
}

// New builds the state from the genesis SectionInfo.
func New(first section.Info, genesisKey sectionproof.KeyInfo) *State {
	return &State{
		ourInfos:       []section.Info{first},
		newInfo:        first,
		neighbourInfos: make(map[prefix.Prefix]section.Info),
		theirKeys:      make(map[prefix.Prefix]sectionproof.KeyInfo),
		theirKnowledge: make(map[prefix.Prefix]uint64),
		ourHistory:     sectionproof.New(genesisKey),
		merging:        make(map[ids.ID]struct{}),
	}
}

// OurInfo returns our own section's latest quorum-accumulated info
// (distinct from NewInfo, which may not yet be quorum-signed).
func (s *State) OurInfo() section.Info {
	return s.ourInfos[len(s.ourInfos)-1]
}

// OurInfos returns the full append-only history of our own section.
func (s *State) OurInfos() []section.Info { return s.ourInfos }

// NewInfo returns the section info currently being built.
func (s *State) NewInfo() section.Info { return s.newInfo }

// SetNewInfo replaces the section info currently being built.
func (s *State) SetNewInfo(info section.Info) { s.newInfo = info }

// OurPrefix returns our section's current prefix.
func (s *State) OurPrefix() prefix.Prefix { return s.OurInfo().Prefix() }

// PushOurNewInfo appends info to our own history and makes it NewInfo,
// extending our_history with the resulting key entry.
func (s *State) PushOurNewInfo(info section.Info, key sectionproof.KeyInfo) {
	s.ourInfos = append(s.ourInfos, info)
	s.newInfo = info
	s.ourHistory.Append(key)
}

// NeighbourInfos returns the map of known neighbour sections.
func (s *State) NeighbourInfos() map[prefix.Prefix]section.Info { return s.neighbourInfos }

// SetNeighbourInfo installs/replaces the info for pfx, returning the
// previous entry (and whether one existed).
func (s *State) SetNeighbourInfo(pfx prefix.Prefix, info section.Info) (section.Info, bool) {
	old, existed := s.neighbourInfos[pfx]
	s.neighbourInfos[pfx] = info
	return old, existed
}

// RemoveNeighbourInfo drops the entry for pfx.
func (s *State) RemoveNeighbourInfo(pfx prefix.Prefix) {
	delete(s.neighbourInfos, pfx)
}

// TheirKnowledge returns the version of our section a peer prefix is
// known to have learned, or 0 if unknown.
func (s *State) TheirKnowledge(pfx prefix.Prefix) uint64 {
	return s.theirKnowledge[pfx]
}

// UpdateTheirKnowledge bumps their_knowledge[pfx] to version if higher.
func (s *State) UpdateTheirKnowledge(pfx prefix.Prefix, version uint64) {
	if version > s.theirKnowledge[pfx] {
		s.theirKnowledge[pfx] = version
	}
}

// TheirKeys returns the latest known key per peer section.
func (s *State) TheirKeys() map[prefix.Prefix]sectionproof.KeyInfo { return s.theirKeys }

// UpdateTheirKeys installs k as the latest key for its prefix, if it is
// newer than (or incompatible with) what we already have.
func (s *State) UpdateTheirKeys(k sectionproof.KeyInfo) {
	if existing, ok := s.theirKeys[k.Prefix]; ok && existing.Version >= k.Version {
		return
	}
	s.theirKeys[k.Prefix] = k
}

// OurHistory returns our own SectionProofChain.
func (s *State) OurHistory() sectionproof.Chain { return s.ourHistory }

// Merging returns the set of section-info hashes voted for merge.
func (s *State) Merging() map[ids.ID]struct{} { return s.merging }

// AddMerging records digest as a section voting to merge.
func (s *State) AddMerging(digest ids.ID) { s.merging[digest] = struct{}{} }

// ClearMerging empties the merge-vote set and returns what it held.
func (s *State) ClearMerging() []ids.ID {
	out := make([]ids.ID, 0, len(s.merging))
	for d := range s.merging {
		out = append(out, d)
	}
	s.merging = make(map[ids.ID]struct{})
	return out
}

// GetSplitCache returns the pending sibling rendezvous slot, if any.
func (s *State) GetSplitCache() *SplitCache { return s.splitCache }

// SetSplitCache installs the rendezvous slot.
func (s *State) SetSplitCache(c *SplitCache) { s.splitCache = c }

// TakeSplitCache removes and returns the rendezvous slot, if any.
func (s *State) TakeSplitCache() *SplitCache {
	c := s.splitCache
	s.splitCache = nil
	return c
}
