// Package contractmap normalizes the contract-map registry, a single JSON
// object keyed by contract address.
package contractmap

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/tokenmap/internal/sources/git"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/sources"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// FileName is the registry file at the repository root.
const FileName = "contract-map.json"

// Source is the contract-map source.
type Source struct {
	repo   git.Repository
	tokens []tokens.RawToken
}

// New creates a contract-map source reading from repo.
func New(repo git.Repository) *Source {
	return &Source{repo: repo}
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.ContractMapID }

// Len implements sources.Source.
func (s *Source) Len() int { return len(s.tokens) }

// Tokens returns the normalized records in address order.
func (s *Source) Tokens() []tokens.RawToken { return s.tokens }

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) error {
	dir, err := s.repo.Sync(ctx)
	if err != nil {
		return errors.WrapFetch(s.ID().String(), "", err)
	}
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from configuration
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	toks, err := Parse(data)
	if err != nil {
		return err
	}
	s.tokens = toks
	return nil
}

// entry is one registry record. Fields not listed here are dropped.
type entry struct {
	Name     *string         `json:"name"`
	Symbol   *string         `json:"symbol"`
	Decimals json.RawMessage `json:"decimals"`
	ERC721   bool            `json:"erc721"`
}

// Parse normalizes the registry document. Non-fungible entries are skipped;
// any fungible entry with a missing or empty field fails the whole parse.
func Parse(data []byte) ([]tokens.RawToken, error) {
	var registry map[string]json.RawMessage
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, errors.WrapParse("json", FileName, err)
	}

	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]tokens.RawToken, 0, len(keys))
	for _, key := range keys {
		var e entry
		if err := json.Unmarshal(registry[key], &e); err != nil {
			return nil, schemaError(key, "", err.Error())
		}
		if e.ERC721 {
			continue
		}
		tok, err := normalize(key, e)
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
	return out, nil
}

func normalize(key string, e entry) (tokens.RawToken, error) {
	if strings.TrimSpace(key) == "" {
		return tokens.RawToken{}, schemaError(key, "address", "is empty")
	}
	if !tokens.IsAddress(strings.TrimSpace(key)) {
		return tokens.RawToken{}, schemaError(key, "address", "is not a hex address")
	}
	if e.Name == nil || strings.TrimSpace(*e.Name) == "" {
		return tokens.RawToken{}, schemaError(key, "name", "is missing or empty")
	}
	if e.Symbol == nil || strings.TrimSpace(*e.Symbol) == "" {
		return tokens.RawToken{}, schemaError(key, "symbol", "is missing or empty")
	}
	if len(e.Decimals) == 0 || string(e.Decimals) == "null" {
		return tokens.RawToken{}, schemaError(key, "decimals", "is missing")
	}
	var d tokens.Decimals
	if err := json.Unmarshal(e.Decimals, &d); err != nil {
		return tokens.RawToken{}, schemaError(key, "decimals", err.Error())
	}

	return tokens.RawToken{
		Address:  strings.TrimSpace(key),
		Name:     e.Name,
		Symbol:   e.Symbol,
		Decimals: &d,
	}, nil
}

func schemaError(record, field, message string) error {
	return errors.NewSchemaValidationError(sources.ContractMapID.String(), record, field, message)
}
