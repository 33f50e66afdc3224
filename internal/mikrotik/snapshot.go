package mikrotik

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// REST endpoint paths, relative to /rest on the router.
const (
	endpointSystemResource = "system/resource"
	endpointInterfaces     = "interface"
	endpointIdentity       = "system/identity"
	endpointRouterboard    = "system/routerboard"
	endpointClock          = "system/clock"
	endpointLicense        = "system/license"
)

// Snapshot holds one poll of a router: the endpoints that must answer
// plus whatever optional endpoints did. Optional endpoints that failed
// are present as empty mappings, so a snapshot always carries all six
// keys.
type Snapshot struct {
	System      map[string]any   `json:"system"`
	Interfaces  []map[string]any `json:"interfaces"`
	Identity    map[string]any   `json:"identity"`
	Routerboard map[string]any   `json:"routerboard"`
	Clock       map[string]any   `json:"clock"`
	License     map[string]any   `json:"license"`
}

// Map converts the snapshot to a generic mapping for storage in a
// device record.
func (s *Snapshot) Map() map[string]any {
	return map[string]any{
		"system":      s.System,
		"interfaces":  s.Interfaces,
		"identity":    s.Identity,
		"routerboard": s.Routerboard,
		"clock":       s.Clock,
		"license":     s.License,
	}
}

// FetchAll polls every endpoint of the session's router.
//
// The system resource and interface endpoints must answer: a failure
// on either aborts the poll and nothing is returned. The remaining
// endpoints are best-effort and fetched concurrently; a failure there
// degrades to an empty mapping and a warning log, never an error.
func (s *Session) FetchAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	system, err := s.fetchObject(ctx, endpointSystemResource)
	if err != nil {
		return nil, err
	}
	snap.System = system

	interfaces, err := s.fetchList(ctx, endpointInterfaces)
	if err != nil {
		return nil, err
	}
	snap.Interfaces = interfaces

	optional := []struct {
		endpoint string
		dest     *map[string]any
	}{
		{endpointIdentity, &snap.Identity},
		{endpointRouterboard, &snap.Routerboard},
		{endpointClock, &snap.Clock},
		{endpointLicense, &snap.License},
	}

	// Each goroutine writes to its own snapshot field and swallows its
	// own failure, so one slow or broken endpoint cannot spoil another.
	var g errgroup.Group
	for _, opt := range optional {
		g.Go(func() error {
			obj, err := s.fetchObject(ctx, opt.endpoint)
			if err != nil {
				s.logger.Warn("optional endpoint failed",
					"ip_address", s.params.IPAddress,
					"endpoint", opt.endpoint,
					"error", err,
				)
				*opt.dest = map[string]any{}
				return nil
			}
			*opt.dest = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}
