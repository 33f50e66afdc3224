// Package api implements the HTTP server for routerdock.
//
// The server exposes two faces over one listener, both backed by the
// same registration service:
//   - a JSON API under /api/v1 for programmatic access
//   - server-rendered HTML fragments under / for the embedded
//     browser UI, swapped into the page shell by htmx
//
// # Architecture
//
//	browser / API client
//	        │
//	        ▼
//	┌─────────────────────────────────────────┐
//	│ Server                                  │
//	│   middleware: request ID, logging,      │
//	│   recovery, CORS, rate limit, body cap, │
//	│   compression                           │
//	│   ├── /             HTML index          │
//	│   ├── /devices      HTML fragments      │
//	│   ├── /static       embedded assets     │
//	│   └── /api/v1       JSON endpoints      │
//	└──────────────┬──────────────────────────┘
//	               ▼
//	     registration.Service
//
// The server follows the same lifecycle pattern as the other
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// # Error Mapping
//
// JSON handlers translate service errors: validation failures become
// 400, unknown IDs 404, routers that cannot be polled 502, store
// failures 500. HTML handlers render the same failures as banners
// inside the returned fragment instead. The password supplied with a
// registration or refresh is forwarded to the router and discarded;
// it never appears in a response or a log line.
//
// Thread Safety: All methods are safe for concurrent use from
// multiple goroutines.
package api
