package verifier

import "github.com/agentstation/tokenmap/pkg/tokens"

// Set is a set of checksummed addresses.
type Set map[string]struct{}

// Add inserts address in checksummed form. Invalid addresses are ignored.
func (s Set) Add(address string) {
	if addr, ok := tokens.Checksum(address); ok {
		s[addr] = struct{}{}
	}
}

// Has reports whether the checksummed address is in the set.
func (s Set) Has(address string) bool {
	_, ok := s[address]
	return ok
}

// Len returns the number of addresses.
func (s Set) Len() int {
	return len(s)
}
