// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"bytes"

	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/xorname"
)

// CandidateState names where a resource-proof candidate sits in its
// lifecycle (spec.md §4.10).
type CandidateState int

const (
	CandidateNone CandidateState = iota
	CandidateAcceptedForResourceProof
	CandidateApproved
)

// Candidate is a peer undergoing resource-proof admission into a
// section. The zero value is CandidateNone.
type Candidate struct {
	State    CandidateState
	OldID    section.PublicId
	Interval [2]xorname.Name // target XOR-name interval assigned for resource proof
	Payload  []byte      // online payload presented at try_accept_as_member
}

// IsNone reports whether no candidate is in flight.
func (c Candidate) IsNone() bool { return c.State == CandidateNone }

// Candidate returns the node's current resource-proof candidate.
func (c *Chain) Candidate() Candidate { return c.candidate }

// AcceptAsCandidate begins resource-proof admission for oldID over
// the given target interval. Precondition: no candidate in flight.
func (c *Chain) AcceptAsCandidate(oldID section.PublicId, interval [2]xorname.Name) error {
	if !c.candidate.IsNone() {
		return ErrInvalidStateForOperation
	}
	c.candidate = Candidate{
		State:    CandidateAcceptedForResourceProof,
		OldID:    oldID,
		Interval: interval,
	}
	return nil
}

// TryAcceptAsMember reports whether payload completes the in-flight
// candidate's admission: the candidate must be in the
// AcceptedForResourceProof state, oldID must match, and the online
// payload must be the one recorded when the candidate was accepted
// (or, absent a recorded payload, any payload is accepted as the
// first one presented). On success the candidate moves to Approved.
func (c *Chain) TryAcceptAsMember(oldID section.PublicId, payload []byte) bool {
	if c.candidate.State != CandidateAcceptedForResourceProof {
		return false
	}
	if c.candidate.OldID.NodeID != oldID.NodeID {
		return false
	}
	if len(c.candidate.Payload) > 0 && !bytes.Equal(c.candidate.Payload, payload) {
		return false
	}
	c.candidate.Payload = payload
	c.candidate.State = CandidateApproved
	return true
}

// ResetCandidate unconditionally drops the in-flight candidate.
func (c *Chain) ResetCandidate() { c.candidate = Candidate{} }

// ResetCandidateIfMemberOf drops the in-flight candidate if its old
// identity is a member of set.
func (c *Chain) ResetCandidateIfMemberOf(set map[section.PublicId]struct{}) {
	if c.candidate.IsNone() {
		return
	}
	if _, ok := set[c.candidate.OldID]; ok {
		c.ResetCandidate()
	}
}
