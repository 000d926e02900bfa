package tokens

import "github.com/agentstation/tokenmap/pkg/constants"

// Override is a manual correction for one address. Every field it sets
// replaces the reconciled value unconditionally.
type Override struct {
	Name        *string   `json:"name,omitempty" yaml:"name,omitempty"`
	Symbol      *string   `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Decimals    *Decimals `json:"decimals,omitempty" yaml:"decimals,omitempty"`
	Color       *string   `json:"color,omitempty" yaml:"color,omitempty"`
	ShadowColor *string   `json:"shadowColor,omitempty" yaml:"shadowColor,omitempty"`
	IsCurated   *bool     `json:"isCurated,omitempty" yaml:"isCurated,omitempty"`
	IsVerified  *bool     `json:"isVerified,omitempty" yaml:"isVerified,omitempty"`
	IsScam      *bool     `json:"isScam,omitempty" yaml:"isScam,omitempty"`

	// ChainID is set from the file name when overrides are split per chain.
	ChainID *uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
}

// Curated reports whether the override marks the token as curated.
func (o Override) Curated() bool {
	return o.IsCurated != nil && *o.IsCurated
}

// Overrides maps a checksummed address, or NativeAssetKey, to its override.
type Overrides map[string]Override

// Get returns the override for a checksummed address.
func (o Overrides) Get(address string) (Override, bool) {
	ov, ok := o[address]
	return ov, ok
}

// IsNativeKey reports whether key names the native asset rather than a contract.
func IsNativeKey(key string) bool {
	return key == constants.NativeAssetKey
}
