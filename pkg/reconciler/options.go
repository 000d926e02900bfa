package reconciler

import (
	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

type options struct {
	priority       Priority
	catalog        tokens.ListID
	strictDecimals bool
	chainID        uint64
}

func defaultOptions() *options {
	return &options{
		priority:       DefaultPriority,
		catalog:        DefaultCatalogList,
		strictDecimals: true,
		chainID:        constants.DefaultChainID,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if !o.priority.Contains(o.catalog) {
		return nil, &errors.ValidationError{
			Field:   "catalog",
			Value:   o.catalog,
			Message: "catalog list must appear in the priority order",
		}
	}
	return o, nil
}

// WithPriority sets the list resolution order.
func WithPriority(priority Priority) Option {
	return func(o *options) error {
		if len(priority) == 0 {
			return &errors.ValidationError{
				Field:   "priority",
				Message: "cannot be empty",
			}
		}
		seen := make(map[tokens.ListID]bool, len(priority))
		for _, id := range priority {
			if !id.IsValid() {
				return &errors.ValidationError{Field: "priority", Value: id, Message: "unknown list"}
			}
			if seen[id] {
				return &errors.ValidationError{Field: "priority", Value: id, Message: "listed twice"}
			}
			seen[id] = true
		}
		o.priority = priority
		return nil
	}
}

// WithCatalogList sets the list folded into the default merge.
func WithCatalogList(id tokens.ListID) Option {
	return func(o *options) error {
		o.catalog = id
		return nil
	}
}

// WithStrictDecimals controls whether a synthetic token without decimals
// is an error. When false it defaults to 18.
func WithStrictDecimals(strict bool) Option {
	return func(o *options) error {
		o.strictDecimals = strict
		return nil
	}
}

// WithChainID sets the chain synthetic tokens are issued on.
func WithChainID(id uint64) Option {
	return func(o *options) error {
		if id == 0 {
			return &errors.ValidationError{Field: "chain_id", Value: id, Message: "must be positive"}
		}
		o.chainID = id
		return nil
	}
}
