// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import "errors"

// Errors reported by graph construction, compilation and execution.
// Returned errors wrap these values with the offending names; test with
// errors.Is.
var (
	// ErrInvalidDescriptor is returned for an empty name or a pass without
	// an execute function.
	ErrInvalidDescriptor = errors.New("rendergraph: invalid descriptor")

	// ErrDuplicateResource is returned when a resource name is registered twice.
	ErrDuplicateResource = errors.New("rendergraph: duplicate resource")

	// ErrDuplicatePass is returned when a pass name is added twice.
	ErrDuplicatePass = errors.New("rendergraph: duplicate pass")

	// ErrUnknownResource is returned by Compile when a pass references a
	// resource that was never registered.
	ErrUnknownResource = errors.New("rendergraph: pass references non-existent resource")

	// ErrUnknownPass is returned by RemovePass for an unknown name.
	ErrUnknownPass = errors.New("rendergraph: unknown pass")

	// ErrCycle is returned by Compile when pass dependencies form a cycle.
	ErrCycle = errors.New("rendergraph: dependency cycle")

	// ErrIncompleteSchedule is returned when the topological sort does not
	// schedule every pass.
	ErrIncompleteSchedule = errors.New("rendergraph: execution order does not cover all passes")

	// ErrExecuting is returned when the graph is modified from inside a
	// pass callback.
	ErrExecuting = errors.New("rendergraph: graph is executing")

	// ErrNoBackend is returned when a resource must be materialized but the
	// graph has no framebuffer backend.
	ErrNoBackend = errors.New("rendergraph: no framebuffer backend")
)
