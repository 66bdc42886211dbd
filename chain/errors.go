// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

// Error kinds per spec.md §7.
var (
	// ErrInvalidStateForOperation is returned when a mutation is not
	// allowed in the current change phase, or a candidate precondition
	// is violated.
	ErrInvalidStateForOperation = errors.New("chain: invalid state for operation")

	// ErrInvalidMessage is returned when a neighbour SectionInfo lacks
	// quorum against any of our historical infos, or a successor
	// relation fails.
	ErrInvalidMessage = errors.New("chain: invalid message")

	// ErrCannotRoute names a failure to assemble a delivery group.
	// Target selection lives in package routing, which returns its own
	// routing.ErrCannotRoute; nothing in this package returns this one.
	ErrCannotRoute = errors.New("chain: cannot route")

	// ErrSerialisation is returned by FinalisePrefixChange when the
	// genesis-related snapshot fails to encode. Decode failures in New
	// and HandleGenesisEvent are returned as the sharedstate package's
	// own wrapped error, not as ErrSerialisation.
	ErrSerialisation = errors.New("chain: serialisation failed")

	// ErrMergeNotSupported names a rejected merge. No function in this
	// package returns it: OurMerge and NeighbourMerge transitions are
	// applied by Poll, and RemoveMember moves the Chain into
	// ChangeMerging.
	ErrMergeNotSupported = errors.New("chain: merge not supported")
)
