// Package application provides the application interface for tokenmap commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with internal/cmd/application.Mock:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            tm, err := app.Tokenmap()
//	            if err != nil {
//	                return err
//	            }
//	            _, err = tm.Build(cmd.Context())
//	            return err
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tokenmap"
)

// Application provides the application interface that commands need.
// The App struct from cmd/tokenmap/app implements it.
type Application interface {
	// Tokenmap returns a client configured from the loaded configuration.
	// opts are applied after the configured options and take precedence.
	Tokenmap(opts ...tokenmap.Option) (tokenmap.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
