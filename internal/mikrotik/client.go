package mikrotik

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Logger defines the logging interface used by the client.
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

// Params identifies one router to poll and the credentials for it.
// The password is held only for the duration of the call chain; it is
// never stored or logged.
type Params struct {
	IPAddress string
	Username  string
	Password  string
	Port      int
}

// Client polls MikroTik routers over their REST API.
//
// A Client is cheap and safe to share: it holds only the fixed
// per-request timeout and a logger. Each poll runs through a Session
// obtained from Open, which owns its own transport.
type Client struct {
	timeout time.Duration
	logger  Logger
}

// NewClient creates a client whose requests time out after the given
// duration.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		timeout: timeout,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the client and its sessions.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Open prepares a session for one router. The caller must Close the
// session on every exit path once the poll is finished.
func (c *Client) Open(params Params) *Session {
	transport := &http.Transport{}
	return &Session{
		params: params,
		base:   fmt.Sprintf("http://%s:%d/rest", params.IPAddress, params.Port),
		httpc: &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
		},
		transport: transport,
		logger:    c.logger,
	}
}

// Session is a scoped connection to a single router. It owns a
// dedicated transport so Close can release the router's connections
// without touching any other poll in flight.
type Session struct {
	params    Params
	base      string
	httpc     *http.Client
	transport *http.Transport
	logger    Logger
	closeOnce sync.Once
}

// Close releases the session's connections. Safe to call more than
// once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.transport.CloseIdleConnections()
	})
}

// fetch performs one GET against a REST endpoint and decodes the JSON
// body. All failure modes wrap ErrConnection.
func (s *Session) fetch(ctx context.Context, endpoint string) (any, error) {
	url := s.base + "/" + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", ErrConnection, endpoint, err)
	}
	req.SetBasicAuth(s.params.Username, s.params.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting %s: %v", ErrConnection, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrConnection, resp.StatusCode, endpoint)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %v", ErrConnection, endpoint, err)
	}

	s.logger.Debug("endpoint fetched", "ip_address", s.params.IPAddress, "endpoint", endpoint)
	return payload, nil
}

// fetchObject retrieves an endpoint whose payload is expected to be a
// single mapping and normalises whatever arrives into one.
func (s *Session) fetchObject(ctx context.Context, endpoint string) (map[string]any, error) {
	payload, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return normalize(payload), nil
}

// fetchList retrieves an endpoint whose payload is expected to be an
// array of mappings. Non-array payloads collapse to an empty list,
// non-mapping elements are dropped.
func (s *Session) fetchList(ctx context.Context, endpoint string) ([]map[string]any, error) {
	payload, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	list, ok := payload.([]any)
	if !ok {
		return []map[string]any{}, nil
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// normalize collapses a decoded payload to a single mapping. RouterOS
// answers some endpoints with a one-element array; the element is the
// mapping we want. Anything that is not a mapping in the end becomes
// an empty one.
func normalize(payload any) map[string]any {
	switch v := payload.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]any); ok {
				return m
			}
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}
