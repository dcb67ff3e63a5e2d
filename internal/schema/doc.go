// Package schema holds the canonical column sets for every file kind the
// merger touches: the Epi database export, the operator's sample/barcode
// sheet, the instrument report metrics and the detailed run report output.
//
// The registry is reference data. Adding a reserved output column or a new
// run-metadata field is a data change here (or a YAML override at runtime),
// never a code change in the engine.
package schema
