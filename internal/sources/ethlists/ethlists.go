// Package ethlists normalizes the community token repository, which keeps
// one JSON document per token.
package ethlists

import (
	"bytes"
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

// Subdir is the mainnet token directory inside the repository.
const Subdir = "tokens/eth"

// SocialKeys are the social links a token document may carry.
var SocialKeys = []string{
	"blog", "chat", "discord", "facebook", "forum", "github", "gitter",
	"instagram", "linkedin", "medium", "reddit", "slack", "telegram",
	"twitter", "youtube",
}

// Source is the community repository source.
type Source struct {
	repo   git.Repository
	tokens []tokens.RawToken
}

// New creates a community repository source reading from repo.
func New(repo git.Repository) *Source {
	return &Source{repo: repo}
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.EthereumListsID }

// Len implements sources.Source.
func (s *Source) Len() int { return len(s.tokens) }

// Tokens returns the validated records in file name order. Deprecation
// pointers are kept for the resolver.
func (s *Source) Tokens() []tokens.RawToken { return s.tokens }

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) error {
	dir, err := s.repo.Sync(ctx)
	if err != nil {
		return errors.WrapFetch(s.ID().String(), "", err)
	}
	toks, err := ParseDir(dir)
	if err != nil {
		return err
	}
	s.tokens = toks
	return nil
}

// ParseDir parses every .json document in dir.
func ParseDir(dir string) ([]tokens.RawToken, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	out := make([]tokens.RawToken, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) //nolint:gosec // path is built from a directory listing
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}
		tok, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
	return out, nil
}

// document is the on-disk token shape. Unknown fields are stripped.
type document struct {
	Address     *string                    `json:"address"`
	Decimals    json.RawMessage            `json:"decimals"`
	Name        *string                    `json:"name"`
	Symbol      *string                    `json:"symbol"`
	Website     json.RawMessage            `json:"website"`
	Social      map[string]json.RawMessage `json:"social"`
	Deprecation map[string]json.RawMessage `json:"deprecation"`
}

// Parse validates one token document. file identifies the record in errors.
func Parse(file string, data []byte) (tokens.RawToken, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return tokens.RawToken{}, errors.WrapParse("json", file, err)
	}

	if doc.Address == nil || !tokens.IsAddress(strings.TrimSpace(*doc.Address)) {
		return tokens.RawToken{}, schemaError(file, "address", "must be a 0x-prefixed 20-byte hex address")
	}
	if doc.Name == nil || strings.TrimSpace(*doc.Name) == "" {
		return tokens.RawToken{}, schemaError(file, "name", "is missing or empty")
	}
	if doc.Symbol == nil || strings.TrimSpace(*doc.Symbol) == "" {
		return tokens.RawToken{}, schemaError(file, "symbol", "is missing or empty")
	}
	if len(doc.Decimals) == 0 || isNull(doc.Decimals) {
		return tokens.RawToken{}, schemaError(file, "decimals", "is missing")
	}
	var d tokens.Decimals
	if err := json.Unmarshal(doc.Decimals, &d); err != nil {
		return tokens.RawToken{}, schemaError(file, "decimals", err.Error())
	}
	if !optionalString(doc.Website) {
		return tokens.RawToken{}, schemaError(file, "website", "must be a string")
	}
	if doc.Social == nil {
		return tokens.RawToken{}, schemaError(file, "social", "is missing")
	}
	for _, key := range SocialKeys {
		if !optionalString(doc.Social[key]) {
			return tokens.RawToken{}, schemaError(file, "social."+key, "must be a string")
		}
	}

	tok := tokens.RawToken{
		Address:  strings.TrimSpace(*doc.Address),
		Name:     doc.Name,
		Symbol:   doc.Symbol,
		Decimals: &d,
	}
	if raw, ok := doc.Deprecation["new_address"]; ok && !isNull(raw) {
		var newAddress string
		if err := json.Unmarshal(raw, &newAddress); err != nil {
			return tokens.RawToken{}, schemaError(file, "deprecation.new_address", "must be a string")
		}
		if newAddress != "" {
			tok.Deprecation = &tokens.Deprecation{NewAddress: newAddress}
		}
	}
	return tok, nil
}

func optionalString(raw json.RawMessage) bool {
	if len(raw) == 0 || isNull(raw) {
		return true
	}
	var s string
	return json.Unmarshal(raw, &s) == nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func schemaError(record, field, message string) error {
	return errors.NewSchemaValidationError(sources.EthereumListsID.String(), record, field, message)
}
