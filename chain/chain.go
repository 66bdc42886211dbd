// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain implements the section-chain state machine: the
// per-node view of a self-organizing overlay partitioned into
// XOR-address sections, driven by accumulated consensus votes
// ("proofs") over NetworkEvents.
package chain

import (
	"sort"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sectionproof"
	"github.com/xornet/sectionchain/sharedstate"
)

// SplitBuffer is the margin added to MinSecSize when deciding whether
// a section has grown enough to split (spec.md §6).
const SplitBuffer = 1

// GenesisPfxInfo seeds a Chain: the first SectionInfo plus an opaque,
// previously-serialized SharedState snapshot (empty at true genesis).
type GenesisPfxInfo struct {
	FirstInfo            section.Info
	FirstStateSerialized []byte
	GenesisKey           sectionproof.KeyInfo
}

type accumEntry struct {
	event  Event
	proofs section.Set
}

// Chain wraps SharedState with the accumulator, event cache, and
// candidate lifecycle a node needs to drive section transitions.
type Chain struct {
	ourID      section.PublicId
	minSecSize int
	isMember   bool

	state *sharedstate.State

	accumulator     map[Key]*accumEntry
	completedEvents map[Key]struct{}
	eventCache      map[Key]Event

	candidate Candidate

	diagnostics Diagnostics
	metrics     *Metrics
}

// New constructs a Chain from a genesis SectionInfo and configuration.
// minSecSize is the minimum viable section size; ourID identifies this
// node within the section's XOR address space.
func New(minSecSize int, ourID section.PublicId, genesis GenesisPfxInfo) (*Chain, error) {
	state := sharedstate.New(genesis.FirstInfo, genesis.GenesisKey)
	if len(genesis.FirstStateSerialized) > 0 {
		if err := state.UpdateWithGenesisRelatedInfo(genesis.FirstStateSerialized); err != nil {
			return nil, err
		}
	}
	c := &Chain{
		ourID:           ourID,
		minSecSize:      minSecSize,
		isMember:        genesis.FirstInfo.Contains(ourID),
		state:           state,
		accumulator:     make(map[Key]*accumEntry),
		completedEvents: make(map[Key]struct{}),
		eventCache:      make(map[Key]Event),
		diagnostics:     NoopDiagnostics{},
	}
	return c, nil
}

// SetDiagnostics installs the sink used for log_or_panic-style
// invariant violations (spec.md §9).
func (c *Chain) SetDiagnostics(d Diagnostics) {
	if d == nil {
		d = NoopDiagnostics{}
	}
	c.diagnostics = d
}

// SetMetrics installs the prometheus-backed observability sink.
func (c *Chain) SetMetrics(m *Metrics) { c.metrics = m }

// OurID returns this node's identity.
func (c *Chain) OurID() section.PublicId { return c.ourID }

// IsMember reports whether we are currently a member of our own section.
func (c *Chain) IsMember() bool { return c.isMember }

// OurInfo returns our section's latest accumulated SectionInfo.
func (c *Chain) OurInfo() section.Info { return c.state.OurInfo() }

// Prefix returns our section's current prefix.
func (c *Chain) Prefix() prefix.Prefix { return c.state.OurPrefix() }

// MinSecSize returns the configured minimum section size.
func (c *Chain) MinSecSize() int { return c.minSecSize }

// State exposes the underlying SharedState for read-only queries from
// the routing package. Mutation must go exclusively through Chain's
// own methods so the accumulator and SharedState never drift apart.
func (c *Chain) State() *sharedstate.State { return c.state }

// HandleOpaqueEvent accumulates a single peer's proof for event
// (the non-churn path: SectionInfo, TheirKeyInfo, AckMessage,
// SendAckMessage, OurMerge, NeighbourMerge, candidate events).
func (c *Chain) HandleOpaqueEvent(event Event, proof section.Proof) error {
	return c.submit(event, &proof, nil)
}

// HandleChurnEvent accumulates an already-assembled ProofSet for
// event (the churn path: AddElder/RemoveElder, where the external
// consensus engine itself produced the quorum proof).
func (c *Chain) HandleChurnEvent(event Event, proofs section.Set) error {
	return c.submit(event, nil, &proofs)
}

// HandleGenesisEvent sets NewInfo to a version-0 SectionInfo of group
// under our current prefix (OurInfo is left unchanged), recomputes
// IsMember from group, and restores relatedInfo into our
// SectionProofChain history.
func (c *Chain) HandleGenesisEvent(group []section.PublicId, relatedInfo []byte) error {
	info := section.New(group, c.state.OurPrefix())
	c.state.SetNewInfo(info)
	c.isMember = info.Contains(c.ourID)
	return c.state.UpdateWithGenesisRelatedInfo(relatedInfo)
}

// submit implements the accumulator steps of spec.md §4.2.
func (c *Chain) submit(event Event, proof *section.Proof, set *section.Set) error {
	key := event.key()

	if _, done := c.completedEvents[key]; done {
		return nil
	}

	if c.shouldSkipAccumulator(event) {
		return nil
	}

	if !c.canHandleVote(event) {
		ourVote := proof != nil && proof.PubID.NodeID == c.ourID.NodeID
		forcedChurn := set != nil
		if ourVote || forcedChurn {
			c.eventCache[key] = event
		}
		return nil
	}

	entry, ok := c.accumulator[key]
	if !ok {
		entry = &accumEntry{event: event, proofs: section.NewSet()}
		c.accumulator[key] = entry
	}
	if proof != nil {
		if !entry.proofs.AddProof(*proof) {
			c.diagnostics.Violation("duplicate_proof_insert", "event", event.Kind.String())
		}
	}
	if set != nil {
		for _, p := range set.All() {
			entry.proofs.AddProof(p)
		}
	}
	if c.metrics != nil {
		c.metrics.ObserveAccumulatorSize(len(c.accumulator))
	}
	return nil
}

// shouldSkipAccumulator drops SectionInfo events whose version is not
// newer than what we (or a neighbour record) already hold for that
// exact prefix.
func (c *Chain) shouldSkipAccumulator(event Event) bool {
	if event.Kind != KindSectionInfo {
		return false
	}
	info := event.SectionInfo
	if info.Prefix().Equal(c.state.OurPrefix()) && info.Version() <= c.state.OurInfo().Version() {
		return true
	}
	if existing, ok := c.state.NeighbourInfos()[info.Prefix()]; ok && info.Version() <= existing.Version() {
		return true
	}
	return false
}

// canHandleVote implements the prefix-change gating of spec.md §4.2.
func (c *Chain) canHandleVote(event Event) bool {
	switch c.state.Change {
	case sharedstate.ChangeNone:
		return true
	case sharedstate.ChangeMerging:
		if event.Kind == KindOurMerge || event.Kind == KindNeighbourMerge {
			return true
		}
		if event.Kind == KindSectionInfo && event.SectionInfo.Prefix().IsCompatible(c.state.OurPrefix()) {
			c.diagnostics.Violation("section_info_during_merge", "prefix", event.SectionInfo.Prefix().String())
		}
		return false
	default: // Splitting
		return event.Kind == KindSectionInfo && event.SectionInfo.Prefix().IsCompatible(c.state.OurPrefix())
	}
}

// Poll selects and applies one accumulated transition, returning the
// event that was applied (or false if nothing is ready).
func (c *Chain) Poll() (Event, bool, error) {
	keys := make([]Key, 0, len(c.accumulator))
	for k := range c.accumulator {
		keys = append(keys, k)
	}
	// Deterministic selection: among valid transitions, the smallest
	// Key (by Kind then Digest bytes) wins, so replays of the same
	// accumulator contents always pick the same event.
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	var bestKey Key
	var bestEntry *accumEntry
	found := false
	for _, k := range keys {
		entry := c.accumulator[k]
		if c.isValidTransition(entry.event, entry.proofs) {
			bestKey, bestEntry, found = k, entry, true
			break
		}
	}
	if !found {
		return Event{}, false, nil
	}

	delete(c.accumulator, bestKey)
	c.completedEvents[bestKey] = struct{}{}

	if err := c.dispatch(bestEntry.event, bestEntry.proofs); err != nil {
		return Event{}, false, err
	}
	if c.metrics != nil {
		c.metrics.IncTransitions(bestEntry.event.Kind.String())
	}
	return bestEntry.event, true, nil
}

func keyLess(a, b Key) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	da, db := a.Digest[:], b.Digest[:]
	for i := range da {
		if da[i] != db[i] {
			return da[i] < db[i]
		}
	}
	return false
}

// isValidTransition implements spec.md §4.3's per-kind predicate.
func (c *Chain) isValidTransition(event Event, proofs section.Set) bool {
	ourInfo := c.state.OurInfo()

	switch event.Kind {
	case KindSectionInfo:
		info := event.SectionInfo
		if info.Prefix().Matches(c.ourID.Name) {
			if !info.IsSuccessorOf(ourInfo) {
				return false
			}
			return proofs.IsQuorum(ourInfo)
		}
		if ourInfo.Prefix().IsCompatible(info.Prefix()) && ourInfo.Version() >= info.Version() {
			return false
		}
		for pfx, existing := range c.state.NeighbourInfos() {
			if pfx.IsCompatible(info.Prefix()) && existing.Version() >= info.Version() {
				return false
			}
		}
		return proofs.IsQuorum(ourInfo)
	case KindSendAckMessage:
		return c.state.Change == sharedstate.ChangeNone && proofs.IsTotalConsensus(ourInfo)
	case KindOurMerge, KindNeighbourMerge:
		return proofs.IsQuorum(ourInfo)
	default:
		return c.state.Change == sharedstate.ChangeNone && proofs.IsQuorum(ourInfo)
	}
}

// dispatch applies an event whose transition has just been validated.
func (c *Chain) dispatch(event Event, proofs section.Set) error {
	switch event.Kind {
	case KindSectionInfo:
		return c.addSectionInfo(event.SectionInfo, proofs)
	case KindTheirKeyInfo:
		c.state.UpdateTheirKeys(event.KeyInfo)
		return nil
	case KindAckMessage:
		c.state.UpdateTheirKnowledge(event.AckSrcPrefix, event.AckVersion)
		return nil
	case KindOurMerge:
		c.state.AddMerging(c.state.OurInfo().Hash())
		c.state.Change = sharedstate.ChangeMerging
		return nil
	case KindNeighbourMerge:
		c.state.AddMerging(event.Digest)
		return nil
	default:
		// Churn, candidate-lifecycle, and data events are surfaced to
		// the embedder unchanged via Poll's return value; nothing to
		// mutate on the Chain itself here.
		return nil
	}
}
