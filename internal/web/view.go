package web

import (
	"fmt"
	"sort"

	"github.com/nerrad567/routerdock/internal/device"
)

// IndexData drives the full index page.
type IndexData struct {
	Version string
	List    ListData
}

// ListData drives the device list fragment. Message and Error are
// optional banners; Error takes precedence when both are set.
type ListData struct {
	Devices []device.Record
	Message string
	Error   string
}

// DetailData drives the device detail fragment. A nil Device renders
// the missing-device variant. Error carries a poll failure banner
// shown above the last stored snapshot.
type DetailData struct {
	Device     *device.Record
	Name       string
	Error      string
	Sections   []Section
	Interfaces [][]Pair
}

// Section is one endpoint snapshot rendered as a key/value table.
type Section struct {
	Title string
	Pairs []Pair
}

// Pair is a single rendered key/value row.
type Pair struct {
	Key   string
	Value string
}

// NewDetailData flattens a record's snapshot into renderable sections.
// Snapshot values come back from persistence as generic JSON shapes,
// so missing or oddly typed entries become empty sections instead of
// template execution errors.
func NewDetailData(rec *device.Record) DetailData {
	data := DetailData{Device: rec}
	if rec == nil {
		return data
	}

	data.Name = identityName(rec)
	for _, sec := range []struct{ key, title string }{
		{"system", "System"},
		{"routerboard", "Routerboard"},
		{"clock", "Clock"},
		{"license", "License"},
	} {
		data.Sections = append(data.Sections, Section{
			Title: sec.title,
			Pairs: pairs(rec.Data[sec.key]),
		})
	}
	for _, row := range rows(rec.Data["interfaces"]) {
		data.Interfaces = append(data.Interfaces, pairs(row))
	}
	return data
}

// identityName returns the router's identity name, falling back to
// the IP address when the identity endpoint yielded nothing.
func identityName(rec *device.Record) string {
	if identity, ok := rec.Data["identity"].(map[string]any); ok {
		if name, ok := identity["name"].(string); ok && name != "" {
			return name
		}
	}
	return rec.IPAddress
}

// pairs converts a generic mapping into key/value rows sorted by key.
func pairs(v any) []Pair {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Pair, 0, len(keys))
	for _, k := range keys {
		out = append(out, Pair{Key: k, Value: fmt.Sprint(m[k])})
	}
	return out
}

// rows converts a stored interface list into individual mappings.
// A JSON round-trip through a store turns typed slices into []any,
// so both shapes are accepted. Anything else renders as no rows.
func rows(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
