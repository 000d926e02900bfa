package tokens

import "strings"

// Token is the canonical catalog entry.
type Token struct {
	Address    string      `json:"address"`
	ChainID    uint64      `json:"chainId"`
	Decimals   uint        `json:"decimals"`
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	Extensions *Extensions `json:"extensions,omitempty"`
}

// Extensions carries the optional branding and curation flags of a token.
// Booleans are only ever emitted when true.
type Extensions struct {
	Color            string `json:"color,omitempty" yaml:"color,omitempty"`
	IsRainbowCurated bool   `json:"isRainbowCurated,omitempty" yaml:"isRainbowCurated,omitempty"`
	IsScam           bool   `json:"isScam,omitempty" yaml:"isScam,omitempty"`
	IsVerified       bool   `json:"isVerified,omitempty" yaml:"isVerified,omitempty"`
	ShadowColor      string `json:"shadowColor,omitempty" yaml:"shadowColor,omitempty"`
}

// IsEmpty reports whether no extension field carries a value.
func (e *Extensions) IsEmpty() bool {
	return e == nil || (strings.TrimSpace(e.Color) == "" &&
		strings.TrimSpace(e.ShadowColor) == "" &&
		!e.IsVerified && !e.IsRainbowCurated && !e.IsScam)
}

// Finalize trims every string field and drops an empty extensions object.
// It is the single place where extensions are pruned before serialization.
func (t Token) Finalize() Token {
	t.Address = strings.TrimSpace(t.Address)
	t.Name = strings.TrimSpace(t.Name)
	t.Symbol = strings.TrimSpace(t.Symbol)
	if t.Extensions != nil {
		ext := *t.Extensions
		ext.Color = strings.TrimSpace(ext.Color)
		ext.ShadowColor = strings.TrimSpace(ext.ShadowColor)
		t.Extensions = &ext
	}
	if t.Extensions.IsEmpty() {
		t.Extensions = nil
	}
	return t
}

// Ext returns the token's extensions, or a zero value when there are none.
func (t Token) Ext() Extensions {
	if t.Extensions == nil {
		return Extensions{}
	}
	return *t.Extensions
}
