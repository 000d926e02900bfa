package tokens

// Icon associates a symbol with a brand color.
type Icon struct {
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
	Name   string `json:"name,omitempty"`
}

// IconIndex maps a symbol to its brand color.
type IconIndex map[string]string

// NewIconIndex unions originals with overrides by symbol; an override wins
// over the original entry for the same symbol.
func NewIconIndex(originals, overrides []Icon) IconIndex {
	idx := make(IconIndex, len(originals)+len(overrides))
	for _, icon := range originals {
		if icon.Symbol != "" && icon.Color != "" {
			idx[icon.Symbol] = icon.Color
		}
	}
	for _, icon := range overrides {
		if icon.Symbol != "" && icon.Color != "" {
			idx[icon.Symbol] = icon.Color
		}
	}
	return idx
}

// Color returns the color for symbol.
func (idx IconIndex) Color(symbol string) (string, bool) {
	c, ok := idx[symbol]
	return c, ok
}
