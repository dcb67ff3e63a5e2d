// Package table provides the in-memory tabular representation shared by the
// rest of runmerge.
//
// This package is the foundational layer: every other internal package
// imports table; table imports nothing internal. This keeps the data model
// free of circular dependencies.
//
// Key design constraints:
//   - Column order is significant and preserved end to end
//   - Column names match case-sensitively; no two columns may be equal
//   - Every row carries exactly the header's columns
//   - All values are strings; empty string means "not filled in", never an error
package table
