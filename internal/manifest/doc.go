// Package manifest provides format-preserving access to Cargo.toml manifests
// and Cargo.lock lockfiles. Semantic reads go through a TOML decode of the
// file content; edits rewrite only the targeted value tokens in the original
// lines, so untouched bytes (comments, ordering, whitespace) survive a
// load/edit/save round trip.
package manifest
