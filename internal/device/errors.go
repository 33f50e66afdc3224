package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a device ID does not exist.
	// Lookups treat this as an absent result, not a fault.
	ErrNotFound = errors.New("device: not found")

	// ErrExists is returned when inserting a record whose ID already exists.
	ErrExists = errors.New("device: already exists")

	// ErrInvalidIPAddress is returned when an IP address is not a valid
	// dotted quad (four numeric octets, each 0-255).
	ErrInvalidIPAddress = errors.New("device: invalid ip address")

	// ErrInvalidPort is returned when a port is outside 1-65535.
	ErrInvalidPort = errors.New("device: invalid port")

	// ErrInvalidUsername is returned when a poll username is empty.
	ErrInvalidUsername = errors.New("device: invalid username")

	// ErrStore is returned when the backing store medium fails (I/O error,
	// corrupt document). Fatal to the current operation; never retried.
	ErrStore = errors.New("device: store failure")
)
