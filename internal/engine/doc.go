// Package engine reconciles a sequencing run's sample sheet with the Epi
// database export into one detailed run report.
//
// The engine is pure data-in/data-out: it receives already-read bytes and
// in-memory tables, returns bytes and structured errors, and never opens a
// file. It holds no state between calls; every merge, update or template
// invocation owns its own transient tables.
//
// Processing order for a merge: load and schema-check both inputs, join the
// sample sheet against the Epi index, broadcast the run-constant metadata
// onto every row, compose the output header. All validation happens before
// any output bytes exist; the engine never produces a partial report.
package engine
