// Package release implements the release pipeline. A run rewrites the
// project files for the new version, commits and tags, publishes the
// package, pushes, creates the hosted release, and prepares the next
// development cycle. Collaborators are narrow interfaces implemented by the
// git, cargo, and github packages.
package release
