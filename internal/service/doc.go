// Package service contains the resource use cases of the marketplace: owner
// profiles, job postings, applications, history collections, saved jobs,
// documents and dashboards.
//
// Every operation receives the verified caller identity and talks to the
// store through a scope bound to that caller's credential, so row-level
// security in the database makes the final access decision. On top of that
// the services enforce ownership themselves:
//
//  1. Ownership: the caller's profile id is resolved from the token subject on
//     every call (ResolveOwner) and compared with the owner column of the row
//     being changed. A mismatch is a Forbidden error, never a silent no-op.
//
//  2. Failure tiers: a failed primary read or write fails the request with an
//     *apperr.Error. Failed secondary list reads degrade to empty lists, and
//     side effects such as view counting, child rows and object cleanup are
//     logged and otherwise ignored.
//
//  3. Caps: capped collections count the owner's rows before inserting and
//     refuse over-limit inserts with MAX_ENTRIES_EXCEEDED.
//
// Services return *apperr.Error for every caller-visible failure; the HTTP
// layer renders them without inspecting store errors directly.
package service
