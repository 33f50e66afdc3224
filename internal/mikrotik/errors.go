package mikrotik

import "errors"

// ErrConnection indicates a router could not be polled: the transport
// failed, the router answered with a non-success status, or the body
// was not valid JSON. The wrapped message carries the detail.
var ErrConnection = errors.New("mikrotik: connection failure")
