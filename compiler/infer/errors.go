package infer

import "errors"

// Sentinel errors for inference failures. Per-relationship ambiguities
// (unresolvable references, missing reciprocals, ambiguous junction
// scalars) are never errors; they are dropped candidates reported at
// debug level. Only graph-level violations halt a run.
var (
	// ErrNoSchema indicates inference was invoked without a graph.
	ErrNoSchema = errors.New("prismatic: no schema graph provided")
)
