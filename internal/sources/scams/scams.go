// Package scams loads the address-keyed scam flag file.
package scams

import (
	"context"
	"encoding/json"
	"os"

	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/sources"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Source is the scam flag source.
type Source struct {
	path    string
	entries map[string]tokens.ScamEntry
}

// New creates a scam source reading path.
func New(path string) *Source {
	return &Source{path: path}
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.ScamsID }

// Len implements sources.Source.
func (s *Source) Len() int { return len(s.entries) }

// Entries returns the scam entries keyed by checksummed address.
func (s *Source) Entries() map[string]tokens.ScamEntry { return s.entries }

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return errors.WrapIO("read", s.path, err)
	}
	entries, err := Parse(data)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Int("scams", len(entries)).Msg("Loaded scam list")
	s.entries = entries
	return nil
}

// Parse decodes a scam file. Every key must be a valid address.
func Parse(data []byte) (map[string]tokens.ScamEntry, error) {
	var raw map[string]tokens.ScamEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse("json", "scams", err)
	}
	out := make(map[string]tokens.ScamEntry, len(raw))
	for key, entry := range raw {
		addr, ok := tokens.Checksum(key)
		if !ok {
			return nil, &errors.SchemaValidationError{
				Source:  sources.ScamsID.String(),
				Record:  key,
				Field:   "address",
				Message: "not a valid address",
			}
		}
		out[addr] = entry
	}
	return out, nil
}
