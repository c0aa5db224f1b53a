// Package git provides a wrapper around Git CLI commands used by craterepo.
// It handles tag queries, commit and tag creation, pushes, and commit history
// metadata without depending on other internal packages.
package git
