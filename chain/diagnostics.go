// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/luxfi/log"
)

// Diagnostics is the injected "log_or_panic" sink of spec.md §9: an
// externalized home for internal invariant violations so tests can
// assert they fired without the Chain itself deciding whether to
// panic. The Chain reports "duplicate_proof_insert" (a signer voted
// twice for one event), "section_info_during_merge" (a SectionInfo
// compatible with our prefix arrived while merging) and
// "neighbour_info_ejected_by_older" (an older neighbour info arrived
// after a newer one).
type Diagnostics interface {
	Violation(kind string, keyvals ...any)
}

// NoopDiagnostics discards every violation. It is the Chain's default
// sink, matching an embedder that has not opted into strict mode.
type NoopDiagnostics struct{}

func (NoopDiagnostics) Violation(string, ...any) {}

// LoggingDiagnostics routes violations through a structured logger at
// Warn level and, when Strict is set, panics after logging (the "debug
// build" half of log_or_panic).
type LoggingDiagnostics struct {
	Log    log.Logger
	Strict bool
}

func (d LoggingDiagnostics) Violation(kind string, keyvals ...any) {
	msg := fmt.Sprintf("chain invariant violation: %s", kind)
	if d.Log != nil {
		d.Log.Warn(msg, keyvals...)
	}
	if d.Strict {
		panic(msg)
	}
}
