package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	ipOctets = 4

	octetMax = 255

	portMin = 1
	portMax = 65535
)

// ValidateIPAddress checks that an address is a valid dotted quad:
// exactly four dot-separated parts, each all digits and within 0-255.
//
// This runs before any record is created or any network call is made,
// so malformed input never reaches the wire or the store.
func ValidateIPAddress(ip string) error {
	parts := strings.Split(ip, ".")
	if len(parts) != ipOctets {
		return fmt.Errorf("%w: %q", ErrInvalidIPAddress, ip)
	}

	for _, part := range parts {
		if !isDigits(part) {
			return fmt.Errorf("%w: %q", ErrInvalidIPAddress, ip)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > octetMax {
			return fmt.Errorf("%w: %q", ErrInvalidIPAddress, ip)
		}
	}

	return nil
}

// isDigits reports whether s is non-empty and consists only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidatePort checks that a port is within 1-65535.
func ValidatePort(port int) error {
	if port < portMin || port > portMax {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return nil
}

// ValidateUsername checks that a poll account name is not blank.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidUsername)
	}
	return nil
}

// GenerateID creates a new opaque identifier for a device record.
func GenerateID() string {
	return uuid.New().String()
}
