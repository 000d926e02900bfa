// Package icons builds the symbol to brand color index from an icon
// manifest and a directory of override SVG files.
package icons

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/tokenmap/internal/sources/git"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/sources"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

const (
	// ManifestFile is the manifest at the root of the icon repository.
	ManifestFile = "manifest.json"

	// OverridesSubdir holds the override SVGs inside their repository.
	OverridesSubdir = "assets/overrides"
)

// Source is the icon source.
type Source struct {
	originals git.Repository
	overrides git.Repository

	index tokens.IconIndex
}

// New creates an icon source. overrides may be nil.
func New(originals, overrides git.Repository) *Source {
	return &Source{originals: originals, overrides: overrides}
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.IconsID }

// Len implements sources.Source.
func (s *Source) Len() int { return len(s.index) }

// Index returns the symbol to color index.
func (s *Source) Index() tokens.IconIndex { return s.index }

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) error {
	dir, err := s.originals.Sync(ctx)
	if err != nil {
		return errors.WrapFetch(s.ID().String(), "", err)
	}
	originals, err := ReadManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		return err
	}

	var overrides []tokens.Icon
	if s.overrides != nil {
		dir, err := s.overrides.Sync(ctx)
		if err != nil {
			return errors.WrapFetch(s.ID().String()+"/overrides", "", err)
		}
		overrides, err = ReadOverrides(ctx, dir)
		if err != nil {
			return err
		}
	}

	s.index = tokens.NewIconIndex(originals, overrides)
	return nil
}

// ReadManifest reads the icon manifest, a JSON array of {symbol, color}.
func ReadManifest(path string) ([]tokens.Icon, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var icons []tokens.Icon
	if err := json.Unmarshal(data, &icons); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return icons, nil
}

// ReadOverrides derives an icon for every <symbol>.svg in dir. The color is
// the first fill of the file made safe for a white background. Files
// without a usable fill are logged and skipped.
func ReadOverrides(ctx context.Context, dir string) ([]tokens.Icon, error) {
	logger := logging.FromContext(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var out []tokens.Icon
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) //nolint:gosec // path is built from a directory listing
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}
		fill, ok, err := FirstFill(data)
		if err != nil {
			return nil, errors.WrapParse("svg", path, err)
		}
		if !ok {
			logger.Warn().Str("file", name).Msg("Could not derive a color from override icon")
			continue
		}
		color, _ := SafeColor(fill)
		out = append(out, tokens.Icon{
			Symbol: SymbolFromFile(name),
			Color:  color,
		})
	}
	return out, nil
}

// SymbolFromFile returns the upper-cased file name up to the first dot.
func SymbolFromFile(name string) string {
	base, _, _ := strings.Cut(filepath.Base(name), ".")
	return strings.ToUpper(base)
}
