// Package postgres implements the store contract on PostgreSQL.
//
// Every operation runs in its own short transaction that first publishes the
// caller's raw bearer token and claims as transaction-local settings
// (request.jwt, request.jwt.claims, request.jwt.claim.sub) and assumes the
// anonymous or authenticated role, so row-level security policies evaluate
// against the original credential. Results are returned as JSON arrays built
// by the database.
//
// The schema lives in the embedded migrations directory and is applied with
// goose.
package postgres
