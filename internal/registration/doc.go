// Package registration ties the device registry to the MikroTik
// client.
//
// The Service is the boundary the API handlers call. It applies
// configured defaults to incoming registrations, polls routers through
// scoped sessions, and enforces the lifecycle rules: registrations
// roll back when the router cannot be polled, refreshes never discard
// the data already stored.
package registration
