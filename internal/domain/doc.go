// Package domain contains the marketplace entities exchanged between the
// persistence layer and the HTTP API: owner profiles (job seekers and
// employers), the resources they own, and the aggregate dashboard shapes.
//
// JSON tags double as column names; rows arrive from the store as JSON objects
// and are decoded straight into these types.
package domain
