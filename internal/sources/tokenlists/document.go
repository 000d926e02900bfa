package tokenlists

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/sources"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Document is a token list as served by a provider.
type Document struct {
	Name   string            `json:"name,omitempty"`
	Tags   json.RawMessage   `json:"tags,omitempty"`
	Tokens []json.RawMessage `json:"tokens"`
}

// listToken is one entry of a token list.
type listToken struct {
	Address    string                     `json:"address"`
	ChainID    *uint64                    `json:"chainId"`
	Decimals   *tokens.Decimals           `json:"decimals"`
	Name       *string                    `json:"name"`
	Symbol     *string                    `json:"symbol"`
	Tags       []string                   `json:"tags"`
	Extensions map[string]json.RawMessage `json:"extensions"`
}

// Normalize validates the tokens of the document and keeps those on chainID.
func (d Document) Normalize(id tokens.ListID, chainID uint64) ([]tokens.RawToken, error) {
	out := make([]tokens.RawToken, 0, len(d.Tokens))
	for i, raw := range d.Tokens {
		var lt listToken
		if err := json.Unmarshal(raw, &lt); err != nil {
			return nil, schemaError(id, fmt.Sprintf("tokens[%d]", i), "", err.Error())
		}
		record := lt.Address
		if record == "" {
			record = fmt.Sprintf("tokens[%d]", i)
		}
		if !tokens.IsAddress(strings.TrimSpace(lt.Address)) {
			return nil, schemaError(id, record, "address", "must be a 0x-prefixed 20-byte hex address")
		}
		if lt.ChainID != nil && *lt.ChainID != chainID {
			continue
		}
		if lt.Name == nil || strings.TrimSpace(*lt.Name) == "" {
			return nil, schemaError(id, record, "name", "is missing or empty")
		}
		if lt.Symbol == nil || strings.TrimSpace(*lt.Symbol) == "" {
			return nil, schemaError(id, record, "symbol", "is missing or empty")
		}
		if lt.Decimals == nil {
			return nil, schemaError(id, record, "decimals", "is missing")
		}

		out = append(out, tokens.RawToken{
			Address:    strings.TrimSpace(lt.Address),
			ChainID:    lt.ChainID,
			Decimals:   lt.Decimals,
			Name:       lt.Name,
			Symbol:     lt.Symbol,
			Tags:       lt.Tags,
			Extensions: extensions(lt.Extensions),
		})
	}
	return out, nil
}

// extensions keeps the branding fields and the scam flag from a list's
// free-form extensions. Values of an unexpected type are ignored.
func extensions(raw map[string]json.RawMessage) *tokens.Extensions {
	if len(raw) == 0 {
		return nil
	}
	var ext tokens.Extensions
	_ = json.Unmarshal(raw["color"], &ext.Color)
	_ = json.Unmarshal(raw["shadowColor"], &ext.ShadowColor)
	_ = json.Unmarshal(raw["isScam"], &ext.IsScam)
	if ext.IsEmpty() {
		return nil
	}
	return &ext
}

func schemaError(id tokens.ListID, record, field, message string) error {
	return errors.NewSchemaValidationError(sources.TokenListsID.String()+"/"+id.String(), record, field, message)
}
