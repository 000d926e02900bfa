// Package app provides the application context and dependency management
// for the tokenmap CLI: configuration, logging and client construction.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tokenmap"
	"github.com/agentstation/tokenmap/cmd/application"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the tokenmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// newClient builds clients; replaced in tests
	newClient func(opts ...tokenmap.Option) (tokenmap.Client, error)
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:   version,
		commit:    commit,
		date:      date,
		builtBy:   builtBy,
		newClient: tokenmap.New,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		app.config = config
	}
	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Tokenmap creates a client from the configuration. opts are applied last.
func (a *App) Tokenmap(opts ...tokenmap.Option) (tokenmap.Client, error) {
	base, err := a.config.Options()
	if err != nil {
		return nil, err
	}
	return a.newClient(append(base, opts...)...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClientFactory replaces tokenmap.New (useful for testing).
func WithClientFactory(fn func(opts ...tokenmap.Option) (tokenmap.Client, error)) Option {
	return func(a *App) error {
		a.newClient = fn
		return nil
	}
}
