// Package dedup resolves deprecated records and splits a token array by
// symbol uniqueness before the default merge.
package dedup

import "github.com/agentstation/tokenmap/pkg/tokens"

// ResolveDeprecations replaces every token that names a successor in
// deprecation.new_address with the successor record from the same slice.
// Addresses match case-insensitively. When the successor is missing the
// original token is kept. Only one hop is followed, so cycles terminate.
// The returned tokens never carry a deprecation field.
func ResolveDeprecations(toks []tokens.RawToken) []tokens.RawToken {
	byAddress := make(map[string]int, len(toks))
	for i, t := range toks {
		key := tokens.Key(t.Address)
		if _, exists := byAddress[key]; !exists {
			byAddress[key] = i
		}
	}

	out := make([]tokens.RawToken, len(toks))
	for i, t := range toks {
		resolved := t
		if t.Deprecation != nil && t.Deprecation.NewAddress != "" {
			if j, ok := byAddress[tokens.Key(t.Deprecation.NewAddress)]; ok {
				resolved = toks[j]
			}
		}
		resolved.Deprecation = nil
		out[i] = resolved
	}
	return out
}

// PartitionByUniqueness splits toks into records whose symbol occurs exactly
// once and records whose symbol is shared. Input order is preserved in both.
func PartitionByUniqueness(toks []tokens.RawToken) (unique, duplicates []tokens.RawToken) {
	counts := make(map[string]int, len(toks))
	for _, t := range toks {
		counts[t.SymbolValue()]++
	}
	for _, t := range toks {
		if counts[t.SymbolValue()] == 1 {
			unique = append(unique, t)
		} else {
			duplicates = append(duplicates, t)
		}
	}
	return unique, duplicates
}
