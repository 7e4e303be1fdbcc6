// Package main hosts the augment CLI entrypoint and command graph.
//
// The Cobra-based command tree lists the registered transforms and their
// parameters, applies a transform chain to a single file with block-level
// parallelism, and runs batch tasks over directory trees. Application
// settings come from a TOML file; task specs are YAML files or are
// assembled from flags.
package main
