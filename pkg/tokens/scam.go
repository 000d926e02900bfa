package tokens

// Sentinel values for tokens known only from the scam file.
const (
	ScamName     = "Scam"
	ScamSymbol   = "SCAM"
	ScamDecimals = 18
)

// ScamEntry flags an address as a scam.
type ScamEntry struct {
	IsScam bool `json:"isScam" yaml:"isScam"`
}

// ScamToken builds the minimal record a scam entry contributes.
func ScamToken(address string, entry ScamEntry) RawToken {
	return RawToken{
		Address:    address,
		Decimals:   NewDecimals(ScamDecimals),
		Name:       String(ScamName),
		Symbol:     String(ScamSymbol),
		Extensions: &Extensions{IsScam: entry.IsScam},
	}
}
