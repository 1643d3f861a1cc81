// Package api is the HTTP surface of the marketplace. Handlers translate
// requests into resource service calls and render the JSON envelope; every
// failure is passed to the shared fault handler so it is rendered in exactly
// one place.
//
// Routes are assembled by NewRouter, which also installs the cross-cutting
// middleware stack (correlation ids, security headers, CORS, access logging
// and metrics, panic recovery, rate limiting and authentication).
package api
