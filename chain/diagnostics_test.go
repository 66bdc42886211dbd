// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/xornet/sectionchain/chain/mock_chain"
	"github.com/xornet/sectionchain/section"
)

// TestDuplicateProofInsertReportsViolation drives a second, duplicate
// vote from the same signer through submit and asserts the injected
// Diagnostics sink observes exactly one "duplicate_proof_insert".
func TestDuplicateProofInsertReportsViolation(t *testing.T) {
	ourID := mkID(1, 0x80)
	members := []section.PublicId{ourID, mkID(2, 0x80), mkID(3, 0x80)}
	c := newTestChain(t, members, ourID)

	ctrl := gomock.NewController(t)
	diag := mock_chain.NewMockDiagnostics(ctrl)
	diag.EXPECT().Violation("duplicate_proof_insert", gomock.Any()).Times(1)
	c.SetDiagnostics(diag)

	// A successor of our current info: an event at our own current
	// version would be dropped by shouldSkipAccumulator before any
	// proof is inserted.
	event := SectionInfoEvent(section.Successor(members, c.Prefix(), c.state.OurInfo()))
	require.NoError(t, c.HandleOpaqueEvent(event, section.Proof{PubID: ourID}))
	// Same signer votes again: the accumulator already has this proof,
	// so AddProof reports no-op and the sink must fire once.
	require.NoError(t, c.HandleOpaqueEvent(event, section.Proof{PubID: ourID}))
}
