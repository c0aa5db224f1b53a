// Package semver provides the version arithmetic for the release engine:
// parsing and comparing semantic versions, bumping them, formatting and
// parsing release tags, and evaluating caret-style dependency requirements.
package semver
