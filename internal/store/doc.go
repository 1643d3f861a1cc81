// Package store defines the row-store contract that services persist through.
//
// A Client hands out a Scope per caller credential; every operation executed
// through that Scope runs with the caller's original bearer token attached so
// that row-level security in the database makes the final access decision.
// Results travel as JSON arrays, mirroring a REST row store, and are decoded
// into domain types by the generic Repository.
package store
