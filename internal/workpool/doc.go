// Package workpool runs a function over a stream of items with bounded
// concurrency. Unordered delivers results as they complete; Ordered
// delivers them in input order.
//
// Both pools stop taking new items once ctx is cancelled. Items already
// running are allowed to finish. The returned channel is closed after the
// last result, and the caller must drain it.
package workpool
