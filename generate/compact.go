// ABOUTME: Deep omission of absent values from assembled payloads
// ABOUTME: Drops nil, blank strings, and objects or lists that end up empty
package generate

import (
	"strings"

	"github.com/harperreed/clientify/models"
)

// Compact returns v with every absent value removed, recursively. Blank
// strings, nil, and maps or slices that are empty after compaction are
// absent; Compact returns nil for them so the caller drops the key.
func Compact(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return val
	case models.Payload:
		if p := CompactPayload(val); p != nil {
			return p
		}
		return nil
	case map[string]any:
		if p := CompactPayload(models.Payload(val)); p != nil {
			return map[string]any(p)
		}
		return nil
	case []models.Payload:
		out := make([]models.Payload, 0, len(val))
		for _, item := range val {
			if p := CompactPayload(item); p != nil {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if c := Compact(item); c != nil {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return v
	}
}

// CompactPayload compacts every value of p and returns nil when nothing is left.
func CompactPayload(p models.Payload) models.Payload {
	out := make(models.Payload, len(p))
	for k, v := range p {
		if c := Compact(v); c != nil {
			out[k] = c
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
