package cache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Dynamic payloads (maps, slices) can carry raw []byte values, which
// plain JSON would silently flatten to strings. Binary values are
// wrapped as {"_type":"bytes","data":<base64>} on the way in and
// restored on the way out, so they round-trip byte-for-byte. Typed
// struct payloads marshal as-is; their []byte fields already survive
// the standard base64 round trip.

func marshalPayload(payload any) ([]byte, error) {
	return json.Marshal(encodeBinary(payload))
}

func encodeBinary(v any) any {
	switch t := v.(type) {
	case []byte:
		return map[string]any{
			"_type": "bytes",
			"data":  base64.StdEncoding.EncodeToString(t),
		}
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = encodeBinary(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = encodeBinary(val)
		}
		return out
	default:
		return v
	}
}

func decodeBinary(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if t["_type"] == "bytes" {
			encoded, ok := t["data"].(string)
			if !ok {
				return nil, fmt.Errorf("tagged bytes value has no data field")
			}
			raw, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("decoding tagged bytes: %w", err)
			}
			return raw, nil
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			decoded, err := decodeBinary(val)
			if err != nil {
				return nil, err
			}
			out[k] = decoded
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			decoded, err := decodeBinary(val)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	default:
		return v, nil
	}
}
