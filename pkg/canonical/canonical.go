// Copyright 2025 Certen Protocol
//
// Canonical JSON encoding shared by every package that hashes or signs a
// structured value. A single implementation here is what makes the
// determinism contract hold across the whole module.

package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Marshal produces the canonical byte encoding of v: UTF-8 JSON with
// lexicographically sorted object keys and Go's default (already-minimal)
// separators. Arrays retain their original order.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return json.Marshal(sortKeys(decoded))
}

// sortKeys recursively rewrites map[string]any into a form that marshals with
// sorted keys; encoding/json already sorts map[string]T keys on Marshal, but
// we decode through map[string]any so nested objects get the same treatment
// regardless of how they were originally populated.
func sortKeys(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make(map[string]any, len(vv))
		for _, k := range keys {
			ordered[k] = sortKeys(vv[k])
		}
		return ordered
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = sortKeys(e)
		}
		return out
	default:
		return vv
	}
}

// Hash returns the SHA-256 digest of the canonical encoding of v.
func Hash(v any) ([]byte, error) {
	b, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(b)
	return sum[:], nil
}

// HashHex is Hash, hex-encoded.
func HashHex(v any) (string, error) {
	sum, err := Hash(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
