package tokens

import "github.com/agentstation/tokenmap/pkg/constants"

// RawToken is a partial token record as produced by a source normalizer.
// Nil fields are absent in the source and never overwrite other sources.
type RawToken struct {
	Address     string       `json:"address"`
	ChainID     *uint64      `json:"chainId,omitempty"`
	Decimals    *Decimals    `json:"decimals,omitempty"`
	Name        *string      `json:"name,omitempty"`
	Symbol      *string      `json:"symbol,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Extensions  *Extensions  `json:"extensions,omitempty"`
	Deprecation *Deprecation `json:"deprecation,omitempty"`
}

// Deprecation points at the record that supersedes a token.
type Deprecation struct {
	NewAddress string `json:"new_address,omitempty"`
}

// SymbolValue returns the symbol or an empty string.
func (r RawToken) SymbolValue() string {
	if r.Symbol == nil {
		return ""
	}
	return *r.Symbol
}

// NameValue returns the name or an empty string.
func (r RawToken) NameValue() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

// HasTag reports whether the token carries tag.
func (r RawToken) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Merge overlays src onto dst field by field and returns the result.
// Neither argument is modified.
func Merge(dst, src RawToken) RawToken {
	out := dst
	if src.Address != "" {
		out.Address = src.Address
	}
	if src.ChainID != nil {
		out.ChainID = src.ChainID
	}
	if src.Decimals != nil {
		out.Decimals = src.Decimals
	}
	if src.Name != nil {
		out.Name = src.Name
	}
	if src.Symbol != nil {
		out.Symbol = src.Symbol
	}
	if src.Tags != nil {
		out.Tags = src.Tags
	}
	if src.Deprecation != nil {
		out.Deprecation = src.Deprecation
	}
	if src.Extensions != nil {
		var ext Extensions
		if dst.Extensions != nil {
			ext = *dst.Extensions
		}
		if src.Extensions.Color != "" {
			ext.Color = src.Extensions.Color
		}
		if src.Extensions.ShadowColor != "" {
			ext.ShadowColor = src.Extensions.ShadowColor
		}
		ext.IsVerified = ext.IsVerified || src.Extensions.IsVerified
		ext.IsRainbowCurated = ext.IsRainbowCurated || src.Extensions.IsRainbowCurated
		ext.IsScam = ext.IsScam || src.Extensions.IsScam
		out.Extensions = &ext
	}
	return out
}

// Token converts a resolved raw record into a canonical token at address.
// Missing fields take their zero value; chainId defaults to mainnet.
func (r RawToken) Token(address string) Token {
	t := Token{
		Address: address,
		ChainID: constants.DefaultChainID,
		Name:    r.NameValue(),
		Symbol:  r.SymbolValue(),
	}
	if r.ChainID != nil {
		t.ChainID = *r.ChainID
	}
	if r.Decimals != nil {
		t.Decimals = uint(*r.Decimals)
	}
	if r.Extensions != nil {
		ext := *r.Extensions
		t.Extensions = &ext
	}
	return t
}

// String returns a pointer to s, for building optional fields.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for building optional fields.
func Bool(b bool) *bool {
	return &b
}

// ChainID returns a pointer to id, for building optional fields.
func ChainID(id uint64) *uint64 {
	return &id
}
