// Package github talks to the GitHub REST API for the hosted side of a
// release: creating releases and maintaining repository topics. It also
// detects checked-in workflow files that take over release creation.
package github
