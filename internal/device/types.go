package device

import "time"

// Record represents a registered router in the device registry.
// This matches the persisted layout: the file store document and the
// devices table both carry exactly these fields.
type Record struct {
	// Identity
	ID string `json:"id"`

	// Connection parameters. The password used for polling is never
	// part of the record; only the account name is kept.
	IPAddress string `json:"ip_address"`
	Username  string `json:"username"`
	Port      int    `json:"port"`

	// Timestamps
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`

	// Data is the aggregated snapshot from the device's REST endpoints,
	// keyed by endpoint name. Nil until the first refresh completes.
	Data map[string]any `json:"data"`
}

// DeepCopy creates a complete independent copy of the Record.
// The Data map is cloned so modifications to the copy do not affect
// the original. This is essential for store isolation.
func (r *Record) DeepCopy() *Record {
	if r == nil {
		return nil
	}

	cpy := *r // Shallow copy of value fields

	cpy.Data = deepCopyMap(r.Data)

	if r.LastAccessed != nil {
		at := *r.LastAccessed
		cpy.LastAccessed = &at
	}

	return &cpy
}

// deepCopyMap creates a deep copy of a map[string]any.
// Nested maps and slices are recursively copied.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	case []map[string]any:
		cpy := make([]map[string]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyMap(elem)
		}
		return cpy
	default:
		// Primitives (string, bool, int, float64, etc.) are safe to copy by value
		return v
	}
}
