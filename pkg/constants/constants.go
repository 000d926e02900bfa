// Package constants provides shared constants used throughout the tokenmap codebase.
// This includes timeouts, limits, file permissions, and default locations that
// should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for token list and market data requests
	DefaultHTTPTimeout = 60 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Verification defaults
const (
	// MarketDataBatchSize is the maximum number of coin ids sent in one price request
	MarketDataBatchSize = 500

	// MinMarketCapUSD is the market capitalization a token needs to be verified
	MinMarketCapUSD = 10_000_000
)

// Token defaults
const (
	// DefaultChainID is assumed for every token that does not declare a chain
	DefaultChainID = 1

	// DefaultDecimals is used for synthetic tokens when lenient decimals are enabled
	DefaultDecimals = 18

	// NativeAssetKey is the override key used for the chain's native asset
	NativeAssetKey = "ETH"
)

// Path defaults
const (
	// DefaultWorkDir is where source repositories are checked out
	DefaultWorkDir = "~/.tokenmap/sources"

	// DefaultOutputDir is where build artifacts are written, relative to the working directory
	DefaultOutputDir = "output"

	// DefaultOutputFile is the file name of the full catalog
	DefaultOutputFile = "rainbow-token-list.json"

	// DefaultLeanOutputFile is the file name of the lean catalog
	DefaultLeanOutputFile = "lean-rainbow-token-list.json"

	// DefaultOverridesPath is the manual override file, relative to the working directory
	DefaultOverridesPath = "rainbow-overrides.json"

	// DefaultScamsPath is the scam flag file, relative to the working directory
	DefaultScamsPath = "rainbow-scams.json"
)

// Watch defaults
const (
	// BuildTimeout bounds a single scheduled rebuild
	BuildTimeout = 15 * time.Minute

	// DefaultWatchInterval is how often a watching builder rebuilds the catalog
	DefaultWatchInterval = time.Hour
)
