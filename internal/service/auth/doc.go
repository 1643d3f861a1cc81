// Package auth verifies the bearer tokens callers present and turns them into
// identities whose raw token can be forwarded to the store.
package auth
