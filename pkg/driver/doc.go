// Package driver wires the lexer, parser and interpreter into a pipeline and
// loads programs from disk, from git history and from package.yml manifests.
package driver
