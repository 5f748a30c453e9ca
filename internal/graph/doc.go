// Package graph holds the read-only algorithms run over the friendship
// graph: breadth-first shortest path and friend-count statistics.
//
// The functions here do no locking; callers pass a consistent view.
package graph
