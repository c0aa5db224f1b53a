// Package workspace locates the enclosing Cargo project and models it as a
// set of packages: a standalone package, or a workspace root plus its
// members, with the dependency edges between them resolved.
package workspace
