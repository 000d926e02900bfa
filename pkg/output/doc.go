// Package output sorts reconciled tokens and writes the catalog artifacts.
//
// Two artifacts are produced: the full catalog and a lean catalog holding
// only tokens that differ from their upstream record. Both are written to
// temporary files first and renamed into place together, so a failed build
// never leaves a partially written catalog behind.
package output
