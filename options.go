package tokenmap

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/agentstation/tokenmap/internal/sources/git"
	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/output"
	"github.com/agentstation/tokenmap/pkg/reconciler"
	"github.com/agentstation/tokenmap/pkg/tokens"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

// Repositories locates the git-backed sources. Each value is a git URL or
// a local directory.
type Repositories struct {
	ContractMap   string
	EthereumLists string
	Icons         string
	IconOverrides string // empty disables override icons
}

// DefaultRepositories are the upstream repositories.
var DefaultRepositories = Repositories{
	ContractMap:   git.ContractMapRepoURL,
	EthereumLists: git.EthereumListsRepoURL,
	Icons:         git.IconsRepoURL,
	IconOverrides: git.IconOverridesRepoURL,
}

// options holds the builder configuration.
type options struct {
	workDir       string
	repositories  Repositories
	listURLs      map[tokens.ListID]string
	chainID       uint64
	overridesPath string
	scamsPath     string

	policy        verifier.Policy
	minMarketCap  decimal.Decimal
	batchSize     int
	marketDataURL string
	marketDataKey string
	marketData    verifier.MarketData
	aggregators   [2]tokens.ListID

	priority       reconciler.Priority
	catalog        tokens.ListID
	strictDecimals bool

	outputDir string
	lean      bool
	dryRun    bool
	version   output.Version
	now       func() time.Time

	httpClient  *http.Client
	registerer  prometheus.Registerer
	metricsFile string

	watchInterval time.Duration
}

func defaults() *options {
	return &options{
		workDir:        constants.DefaultWorkDir,
		repositories:   DefaultRepositories,
		listURLs:       make(map[tokens.ListID]string),
		chainID:        constants.DefaultChainID,
		overridesPath:  constants.DefaultOverridesPath,
		scamsPath:      constants.DefaultScamsPath,
		policy:         verifier.PolicyMarketCap,
		minMarketCap:   decimal.NewFromInt(constants.MinMarketCapUSD),
		batchSize:      constants.MarketDataBatchSize,
		aggregators:    [2]tokens.ListID{tokens.CoinGeckoList, tokens.UniswapList},
		priority:       reconciler.DefaultPriority,
		catalog:        reconciler.DefaultCatalogList,
		strictDecimals: true,
		outputDir:      constants.DefaultOutputDir,
		lean:           true,
		version:        output.DefaultVersion,
		now:            time.Now,
		watchInterval:  constants.DefaultWatchInterval,
	}
}

// Option is a function that configures a Client.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithWorkDir sets where remote repositories are checked out.
func WithWorkDir(dir string) Option {
	return func(o *options) error {
		if dir != "" {
			o.workDir = dir
		}
		return nil
	}
}

// WithRepositories sets the git-backed source locations.
func WithRepositories(r Repositories) Option {
	return func(o *options) error {
		if r.ContractMap == "" || r.EthereumLists == "" || r.Icons == "" {
			return &errors.ValidationError{
				Field:   "repositories",
				Message: "contract map, ethereum-lists and icon locations are required",
			}
		}
		o.repositories = r
		return nil
	}
}

// WithListURL overrides the endpoint of one token list. An empty url
// disables the list.
func WithListURL(id tokens.ListID, url string) Option {
	return func(o *options) error {
		if !id.IsValid() {
			return &errors.ValidationError{Field: "token_lists", Value: id, Message: "unknown token list"}
		}
		o.listURLs[id] = url
		return nil
	}
}

// WithChainID keeps only token-list entries on the given chain.
func WithChainID(id uint64) Option {
	return func(o *options) error {
		if id == 0 {
			return &errors.ValidationError{Field: "chain_id", Value: id, Message: "must be positive"}
		}
		o.chainID = id
		return nil
	}
}

// WithOverridesPath sets the override file or directory.
func WithOverridesPath(path string) Option {
	return func(o *options) error {
		if path != "" {
			o.overridesPath = path
		}
		return nil
	}
}

// WithScamsPath sets the scam flag file.
func WithScamsPath(path string) Option {
	return func(o *options) error {
		if path != "" {
			o.scamsPath = path
		}
		return nil
	}
}

// WithPolicy selects the verification policy.
func WithPolicy(p verifier.Policy) Option {
	return func(o *options) error {
		o.policy = p
		return nil
	}
}

// WithMinMarketCap sets the market cap threshold of the marketcap policy.
func WithMinMarketCap(usd decimal.Decimal) Option {
	return func(o *options) error {
		o.minMarketCap = usd
		return nil
	}
}

// WithBatchSize sets how many coin ids go into one price request.
func WithBatchSize(n int) Option {
	return func(o *options) error {
		o.batchSize = n
		return nil
	}
}

// WithMarketDataURL points the CoinGecko client at another API root.
func WithMarketDataURL(url string) Option {
	return func(o *options) error {
		o.marketDataURL = url
		return nil
	}
}

// WithMarketDataAPIKey sets the CoinGecko API key.
func WithMarketDataAPIKey(key string) Option {
	return func(o *options) error {
		o.marketDataKey = key
		return nil
	}
}

// WithMarketData replaces the CoinGecko client.
func WithMarketData(m verifier.MarketData) Option {
	return func(o *options) error {
		o.marketData = m
		return nil
	}
}

// WithAggregators sets the two lists whose common tokens are checked
// against market data under the marketcap policy.
func WithAggregators(a, b tokens.ListID) Option {
	return func(o *options) error {
		for _, id := range []tokens.ListID{a, b} {
			if !id.IsValid() {
				return &errors.ValidationError{Field: "verification.aggregators", Value: id, Message: "unknown list"}
			}
		}
		if a == b {
			return &errors.ValidationError{Field: "verification.aggregators", Value: a, Message: "must name two different lists"}
		}
		o.aggregators = [2]tokens.ListID{a, b}
		return nil
	}
}

// WithPriority sets the list priority order.
func WithPriority(p reconciler.Priority) Option {
	return func(o *options) error {
		o.priority = p
		return nil
	}
}

// WithCatalogList sets the list folded into the defaults.
func WithCatalogList(id tokens.ListID) Option {
	return func(o *options) error {
		o.catalog = id
		return nil
	}
}

// WithStrictDecimals requires synthetic overrides to carry decimals.
func WithStrictDecimals(strict bool) Option {
	return func(o *options) error {
		o.strictDecimals = strict
		return nil
	}
}

// WithOutputDir sets the artifact directory.
func WithOutputDir(dir string) Option {
	return func(o *options) error {
		if dir != "" {
			o.outputDir = dir
		}
		return nil
	}
}

// WithLean enables the lean artifact.
func WithLean(enabled bool) Option {
	return func(o *options) error {
		o.lean = enabled
		return nil
	}
}

// WithDryRun reconciles without writing artifacts.
func WithDryRun(dry bool) Option {
	return func(o *options) error {
		o.dryRun = dry
		return nil
	}
}

// WithVersion sets the envelope version.
func WithVersion(v output.Version) Option {
	return func(o *options) error {
		o.version = v
		return nil
	}
}

// WithClock sets the timestamp source of the envelope.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for token lists and market data.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithRegisterer registers build metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithMetricsFile writes build metrics in the text exposition format to
// path after every successful build.
func WithMetricsFile(path string) Option {
	return func(o *options) error {
		o.metricsFile = path
		return nil
	}
}

// WithWatchInterval sets how often Watch rebuilds.
func WithWatchInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{Field: "watch_interval", Value: d, Message: "must be positive"}
		}
		o.watchInterval = d
		return nil
	}
}
