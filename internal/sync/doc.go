// Package sync implements the bidirectional synchronization engine
// that reconciles a local board with the remote issue tracker.
//
// One [Engine.Run] pass performs fetch, pair, detect, build, resolve,
// and aggregate, returning a [model.SyncResult] of typed operations and
// unresolved conflicts. The caller then drives [Execute] over the
// operations with its own board-mutation callbacks; the engine never
// mutates the board itself.
//
// # Pairing modes
//
// Single-repository mode fetches every issue of the configured
// repository and pairs by bare issue number. All-repositories mode
// enumerates accessible repositories, fetches open issues from each,
// and pairs by the composite (owner, repo, number) key. Cards without
// a complete reference never pair in multi-repo mode; [RekeyCards]
// repairs them on a mode transition.
//
// # Failure boundaries
//
// A fetch or pairing failure is caught once at the Run boundary,
// recorded on the run status, and reported through the result; Run
// only ever returns [ErrSyncInProgress] as a Go error. During
// execution each operation fails independently: the batch continues
// past a failed operation, whose terminal status and error message
// carry the outcome.
package sync
