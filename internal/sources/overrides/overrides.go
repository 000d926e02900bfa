// Package overrides loads the manual override file. Overrides may live in a
// single JSON or YAML file, or in a directory holding one file per chain id
// (1.json, 10.yaml, ...). A build only ever sees one chain's overrides.
package overrides

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/sources"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Source is the override source for one chain.
type Source struct {
	path      string
	chainID   uint64
	overrides tokens.Overrides
}

// New creates an override source reading the overrides for chainID from path.
func New(path string, chainID uint64) *Source {
	return &Source{path: path, chainID: chainID}
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.OverridesID }

// Len implements sources.Source.
func (s *Source) Len() int { return len(s.overrides) }

// Overrides returns the loaded overrides.
func (s *Source) Overrides() tokens.Overrides { return s.overrides }

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) error {
	ovs, err := Load(s.path, s.chainID)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Uint64("chain_id", s.chainID).
		Int("overrides", len(ovs)).
		Msg("Loaded overrides")
	s.overrides = ovs
	return nil
}

// Load reads the overrides that apply to chainID. A single file may pin
// entries to a chain with chainId; entries pinned elsewhere are left out.
// In a per-chain directory only the chainID file is used, and a missing
// file means no overrides.
func Load(path string, chainID uint64) (tokens.Overrides, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapIO("stat", path, err)
	}
	if info.IsDir() {
		chains, err := LoadDir(path)
		if err != nil {
			return nil, err
		}
		if ovs, ok := chains[chainID]; ok {
			return ovs, nil
		}
		return make(tokens.Overrides), nil
	}

	ovs, err := LoadFile(path, nil)
	if err != nil {
		return nil, err
	}
	out := make(tokens.Overrides, len(ovs))
	for key, ov := range ovs {
		if ov.ChainID == nil || *ov.ChainID == chainID {
			out[key] = ov
		}
	}
	return out, nil
}

// LoadDir reads every <chainId> file of a per-chain directory, keyed by
// chain id. Files for the same chain (1.json and 1.yaml) are merged and
// must not share an address.
func LoadDir(path string) (map[uint64]tokens.Overrides, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isOverrideFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	chains := make(map[uint64]tokens.Overrides)
	for _, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		chainID, err := strconv.ParseUint(base, 10, 64)
		if err != nil || chainID == 0 {
			return nil, &errors.ValidationError{
				Field:   "file",
				Value:   name,
				Message: "override files in a directory must be named <chainId>.json or <chainId>.yaml",
			}
		}
		ovs, err := LoadFile(filepath.Join(path, name), &chainID)
		if err != nil {
			return nil, err
		}

		out, ok := chains[chainID]
		if !ok {
			out = make(tokens.Overrides, len(ovs))
			chains[chainID] = out
		}
		for key, ov := range ovs {
			if *ov.ChainID != chainID {
				return nil, &errors.ValidationError{
					Field:   "chainId",
					Value:   key,
					Message: "entry in " + name + " is pinned to another chain",
				}
			}
			if _, dup := out[key]; dup {
				return nil, &errors.ValidationError{
					Field:   "address",
					Value:   key,
					Message: "address overridden twice for chain " + base,
				}
			}
			out[key] = ov
		}
	}
	return chains, nil
}

// LoadFile reads a single override file. A non-nil chainID is applied to
// every entry that does not set its own.
func LoadFile(path string, chainID *uint64) (tokens.Overrides, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	ovs, err := Parse(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	if chainID != nil {
		for key, ov := range ovs {
			if ov.ChainID == nil {
				ov.ChainID = tokens.ChainID(*chainID)
				ovs[key] = ov
			}
		}
	}
	return ovs, nil
}

// Parse decodes an override document. YAML is used for .yaml and .yml
// names, JSON otherwise. Keys are checksummed; the native asset key is
// kept verbatim.
func Parse(name string, data []byte) (tokens.Overrides, error) {
	raw := make(map[string]tokens.Override)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapParse("yaml", name, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapParse("json", name, err)
		}
	}

	out := make(tokens.Overrides, len(raw))
	for key, ov := range raw {
		normalized, err := NormalizeKey(key)
		if err != nil {
			return nil, err
		}
		if _, dup := out[normalized]; dup {
			return nil, &errors.ValidationError{
				Field:   "address",
				Value:   key,
				Message: "address appears more than once",
			}
		}
		out[normalized] = ov
	}
	return out, nil
}

// NormalizeKey checksums an override key.
func NormalizeKey(key string) (string, error) {
	if tokens.IsNativeKey(key) {
		return key, nil
	}
	addr, ok := tokens.Checksum(key)
	if !ok {
		return "", &errors.ValidationError{
			Field:   "address",
			Value:   key,
			Message: "override key is not a valid address",
		}
	}
	return addr, nil
}

// Validate reports every field-level problem in ovs: blank names or
// symbols and colors that are not hex.
func Validate(ovs tokens.Overrides) error {
	keys := make([]string, 0, len(ovs))
	for key := range ovs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		ov := ovs[key]
		if ov.Name != nil && strings.TrimSpace(*ov.Name) == "" {
			errs = append(errs, fieldError(key, "name", "must not be blank"))
		}
		if ov.Symbol != nil && strings.TrimSpace(*ov.Symbol) == "" {
			errs = append(errs, fieldError(key, "symbol", "must not be blank"))
		}
		if ov.Color != nil && !isHexColor(*ov.Color) {
			errs = append(errs, fieldError(key, "color", "must be a #rrggbb color"))
		}
		if ov.ShadowColor != nil && !isHexColor(*ov.ShadowColor) {
			errs = append(errs, fieldError(key, "shadowColor", "must be a #rrggbb color"))
		}
	}
	return stderrors.Join(errs...)
}

func fieldError(key, field, msg string) error {
	return &errors.ValidationError{Field: field, Value: key, Message: key + ": " + msg}
}

func isHexColor(s string) bool {
	if (len(s) != 7 && len(s) != 4) || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func isOverrideFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
