// Package mikrotik polls MikroTik routers over the RouterOS REST API.
//
// Each poll opens a Session scoped to one router, fetches a fixed set
// of read-only endpoints with HTTP Basic auth, and folds the answers
// into a Snapshot. Two endpoints are required (system resource and the
// interface list); the rest are best-effort and degrade to empty
// mappings when the router does not answer them.
//
// There are no retries: a poll either completes within the configured
// timeout or fails with ErrConnection. Credentials travel only inside
// Params and are never retained or logged.
package mikrotik
