package tokens

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsAddress reports whether s is a 0x-prefixed, 20-byte hex address.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// Checksum returns the EIP-55 checksummed form of a hex address.
// The second return value is false when s is not a valid address.
func Checksum(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !IsAddress(s) {
		return "", false
	}
	return common.HexToAddress(s).Hex(), true
}

// Key returns the case-insensitive lookup key for an address.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
