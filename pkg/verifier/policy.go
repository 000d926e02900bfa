package verifier

import (
	"strings"

	"github.com/agentstation/tokenmap/pkg/errors"
)

// Policy selects how verification is computed.
type Policy string

// Verification policies.
const (
	PolicyMembership Policy = "membership"
	PolicyMarketCap  Policy = "marketcap"
)

// String returns the string representation of a policy.
func (p Policy) String() string {
	return string(p)
}

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyMembership, PolicyMarketCap:
		return p, nil
	default:
		return "", &errors.ValidationError{
			Field:   "verification.policy",
			Value:   s,
			Message: "must be one of membership, marketcap",
		}
	}
}
