// Package device provides the device registry for RouterDock.
//
// The registry is the catalogue of every MikroTik router known to the
// application. It manages record lifecycle and hands consistent
// snapshots to the REST API and the registration service.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│                          Device Registry                             │
//	│                                                                      │
//	│  ┌──────────────────┐    ┌──────────────────┐   ┌─────────────────┐  │
//	│  │     Registry     │    │      Store       │   │    Validation   │  │
//	│  │   (registry.go)  │───▶│    (store.go)    │   │ (validation.go) │  │
//	│  │                  │    │                  │   │                 │  │
//	│  │ • CRUD ops       │    │ • MemoryStore    │   │ • IPv4 checks   │  │
//	│  │ • Single mutex   │    │ • FileStore      │   │ • Port range    │  │
//	│  │ • Ordering       │    │ • SQLiteStore    │   │ • Username      │  │
//	│  └──────────────────┘    └──────────────────┘   └─────────────────┘  │
//	└──────────────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Record: a registered router and the data last polled from it
//   - Store: persistence boundary with memory, file and SQLite backends
//   - Registry: thread-safe operations over a Store
//
// # Usage
//
//	store := device.NewMemoryStore()
//	registry := device.NewRegistry(store)
//	registry.SetLogger(log)
//
//	rec := &device.Record{
//	    IPAddress: "192.168.88.1",
//	    Username:  "admin",
//	    Port:      80,
//	}
//	if err := registry.CreateDevice(ctx, rec); err != nil {
//	    return err
//	}
//
//	devices, _ := registry.ListDevices(ctx)
//	rec, _ = registry.GetDevice(ctx, rec.ID)
//
// # Thread Safety
//
// The Registry is safe for concurrent use. Every operation runs under
// one mutex, end to end, so Store implementations themselves do not
// need to be thread-safe. Never call a Store directly once it has been
// handed to a Registry.
//
// The password used when polling a router is deliberately absent from
// Record: it lives in configuration and is supplied per call by the
// registration service.
package device
