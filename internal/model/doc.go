// Package model defines the data structures shared across boardsync.
//
// The board hierarchy ([Board], [Column], [Card]) is owned and mutated
// by the caller; the sync engine only reads it and returns typed
// operations for the caller to apply. Sync artifacts ([SyncConflict],
// [SyncOperation], [SyncResult]) are pass-scoped value objects created
// fresh on every run and never persisted.
//
// # Pairing keys
//
// In single-repository mode a card pairs to an issue by bare issue
// number. In all-repositories mode the composite (owner, repo, number)
// triple is the sole key, built by [RemoteRef.Key], because issue
// numbers are only unique within one repository.
//
// # Operation payloads
//
// [SyncOperation] is a tagged union: exactly one payload pointer
// matching Kind is set, so executor dispatch is exhaustive and
// compiler-checked rather than inspecting an untyped bag.
package model
