// Package task turns declarative augmentation tasks into work.
//
// A TaskSpec names a set of input files and the chain of transforms to
// apply to them. A Registry maps transform names to factories and builds
// the chain; an Executor enumerates the files and runs the chain over
// each one, either one file per worker (Execute) or one block per worker
// within a single file (ExecuteFile).
package task
