// Package store provides the persistence layer for boardsync.
//
// The package defines the [Store] interface, which covers the three
// durable artifacts of the system: the board, the sync configuration,
// and the last run-status snapshot. The backend is BoltDB, an embedded
// key-value store, with each artifact serialized as JSON under its own
// bucket.
//
// Pass-scoped sync artifacts (operations, conflicts) are deliberately
// absent here: they are created fresh on every sync pass and never
// persisted.
package store
