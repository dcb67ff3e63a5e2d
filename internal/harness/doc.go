// Package harness provides a conformance harness for the merge engine.
//
// Scenarios are YAML files pairing input payloads (sample sheet, Epi
// export, optional instrument report, operator values) with an expected
// outcome: either a composed report, compared byte for byte against a
// golden file, or a structured error code.
//
// Because the engine is pure data-in/data-out, a scenario exercises the
// whole pipeline (load, schema check, join, metadata broadcast, compose)
// without touching the filesystem or any interface driver.
package harness
