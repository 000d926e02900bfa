package reconciler

import (
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Layer is one named input of the default merge.
type Layer struct {
	Name   string
	Tokens []tokens.RawToken
}

// Merged is the result of the default merge, keyed by checksummed address.
type Merged map[string]tokens.RawToken

// Fold overlays layers from lowest to highest priority and returns a new
// map. For a shared address the later layer's fields win one by one; fields
// it does not set survive from earlier layers. Inside a single layer a
// repeated address replaces the earlier record whole. No layer is modified.
func Fold(layers ...Layer) (Merged, error) {
	acc := make(Merged)
	for _, layer := range layers {
		keyed, err := keyByAddress(layer)
		if err != nil {
			return nil, err
		}
		next := make(Merged, len(acc)+len(keyed))
		for addr, t := range acc {
			next[addr] = t
		}
		for addr, t := range keyed {
			if prev, ok := next[addr]; ok {
				t = tokens.Merge(prev, t)
			}
			t.Address = addr
			next[addr] = t
		}
		acc = next
	}
	return acc, nil
}

func keyByAddress(layer Layer) (map[string]tokens.RawToken, error) {
	out := make(map[string]tokens.RawToken, len(layer.Tokens))
	for _, t := range layer.Tokens {
		addr, ok := tokens.Checksum(t.Address)
		if !ok {
			return nil, errors.NewSchemaValidationError(layer.Name, t.Address, "address", "not a valid hex address")
		}
		out[addr] = t
	}
	return out, nil
}
