package registration

import (
	"context"

	"github.com/nerrad567/routerdock/internal/device"
	"github.com/nerrad567/routerdock/internal/mikrotik"
)

// Logger defines the logging interface used by the Service.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Defaults carries the poll settings applied when a request omits
// them. The password never leaves this struct except inside
// mikrotik.Params.
type Defaults struct {
	Username string
	Password string
	Port     int
}

// Service coordinates the device registry and the router client. It
// owns the ordering rules of registration: a record is created first,
// the router is polled second, and the record is rolled back when the
// poll cannot satisfy the required endpoints.
type Service struct {
	registry *device.Registry
	client   *mikrotik.Client
	defaults Defaults
	logger   Logger
}

// NewService creates a registration service.
func NewService(registry *device.Registry, client *mikrotik.Client, defaults Defaults) *Service {
	return &Service{
		registry: registry,
		client:   client,
		defaults: defaults,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// RegisterDevice registers a router and polls it for the first time.
// An empty username, empty password or zero port falls back to the
// configured defaults. The password is used for the poll only and is
// not part of the stored record.
//
// The record is persisted before the router is contacted. If the
// required endpoints cannot be fetched, the just-created record is
// removed again and the poll error is returned: a failed registration
// leaves nothing behind.
func (s *Service) RegisterDevice(ctx context.Context, ip, username, password string, port int) (*device.Record, error) {
	if username == "" {
		username = s.defaults.Username
	}
	if password == "" {
		password = s.defaults.Password
	}
	if port == 0 {
		port = s.defaults.Port
	}

	rec := &device.Record{
		IPAddress: ip,
		Username:  username,
		Port:      port,
	}
	if err := s.registry.CreateDevice(ctx, rec); err != nil {
		return nil, err
	}

	snap, err := s.poll(ctx, rec, username, password)
	if err != nil {
		s.rollback(ctx, rec.ID)
		return nil, err
	}

	updated, err := s.registry.UpdateDeviceData(ctx, rec.ID, snap.Map())
	if err != nil {
		s.rollback(ctx, rec.ID)
		return nil, err
	}

	s.logger.Info("device registered", "id", rec.ID, "ip_address", rec.IPAddress)
	return updated, nil
}

// RefreshDevice re-polls a registered router and replaces its stored
// data. A failed poll leaves the previous data untouched.
//
// An empty username falls back to the one stored at registration, an
// empty password to the configured default.
func (s *Service) RefreshDevice(ctx context.Context, id, username, password string) (*device.Record, error) {
	rec, err := s.registry.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}

	if username == "" {
		username = rec.Username
	}
	if password == "" {
		password = s.defaults.Password
	}

	snap, err := s.poll(ctx, rec, username, password)
	if err != nil {
		return nil, err
	}

	updated, err := s.registry.UpdateDeviceData(ctx, id, snap.Map())
	if err != nil {
		return nil, err
	}

	s.logger.Info("device refreshed", "id", id, "ip_address", rec.IPAddress)
	return updated, nil
}

// GetDevice retrieves a registered router by ID.
func (s *Service) GetDevice(ctx context.Context, id string) (*device.Record, error) {
	return s.registry.GetDevice(ctx, id)
}

// ListDevices retrieves all registered routers.
func (s *Service) ListDevices(ctx context.Context) ([]device.Record, error) {
	return s.registry.ListDevices(ctx)
}

// DeleteDevice removes a registered router. It reports whether a
// record was removed; deleting an unknown ID is not an error.
func (s *Service) DeleteDevice(ctx context.Context, id string) (bool, error) {
	return s.registry.DeleteDevice(ctx, id)
}

// poll opens a scoped session for the record's router and fetches a
// snapshot. The session is released on every path.
func (s *Service) poll(ctx context.Context, rec *device.Record, username, password string) (*mikrotik.Snapshot, error) {
	sess := s.client.Open(mikrotik.Params{
		IPAddress: rec.IPAddress,
		Username:  username,
		Password:  password,
		Port:      rec.Port,
	})
	defer sess.Close()

	return sess.FetchAll(ctx)
}

// rollback removes a record created by a registration that could not
// complete. Its own failure is logged, not returned: the caller's
// error is the one that matters.
func (s *Service) rollback(ctx context.Context, id string) {
	if _, err := s.registry.DeleteDevice(ctx, id); err != nil {
		s.logger.Error("rolling back failed registration", "id", id, "error", err)
		return
	}
	s.logger.Warn("registration rolled back", "id", id)
}
