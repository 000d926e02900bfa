// Package git checks out the repositories that back the file-based sources.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
)

// Well-known upstream repositories.
const (
	ContractMapRepoURL   = "https://github.com/metamask/eth-contract-metadata.git"
	EthereumListsRepoURL = "https://github.com/ethereum-lists/tokens.git"
	IconsRepoURL         = "https://github.com/spothq/cryptocurrency-icons.git"
	IconOverridesRepoURL = "https://github.com/mikedemarais/react-coin-icon.git"
)

// Repository yields a local directory holding a source's files.
type Repository interface {
	// Sync makes the checkout current and returns the directory to read.
	Sync(ctx context.Context) (string, error)
}

// Remote is a shallow clone of a git repository in a private directory.
type Remote struct {
	URL    string
	Path   string // checkout directory
	Subdir string // directory inside the checkout handed to the caller
}

// NewRemote creates a Remote checked out to workDir/name.
func NewRemote(url, workDir, name, subdir string) *Remote {
	if workDir == "" {
		workDir = constants.DefaultWorkDir
	}
	return &Remote{
		URL:    url,
		Path:   filepath.Join(ExpandPath(workDir), name),
		Subdir: subdir,
	}
}

// Sync clones the repository, or resets and pulls an existing checkout.
func (r *Remote) Sync(ctx context.Context) (string, error) {
	logger := logging.FromContext(ctx)

	if r.exists() {
		logger.Debug().Str("path", r.Path).Msg("Updating repository")
		if err := r.update(ctx); err != nil {
			return "", err
		}
	} else {
		logger.Debug().Str("url", r.URL).Str("path", r.Path).Msg("Cloning repository")
		if err := r.clone(ctx); err != nil {
			return "", err
		}
	}
	return filepath.Join(r.Path, r.Subdir), nil
}

func (r *Remote) exists() bool {
	_, err := os.Stat(filepath.Join(r.Path, ".git"))
	return err == nil
}

func (r *Remote) clone(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.Path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(r.Path), err)
	}

	return run(ctx, "", "clone repository", "clone", "--depth", "1", r.URL, r.Path)
}

func (r *Remote) update(ctx context.Context) error {
	if err := run(ctx, r.Path, "reset repository", "reset", "--hard", "HEAD"); err != nil {
		return err
	}
	return run(ctx, r.Path, "pull latest changes", "pull", "--ff-only")
}

func run(ctx context.Context, dir, operation string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // arguments come from configuration
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &errors.ProcessError{
			Operation: operation,
			Command:   "git " + args[0],
			Output:    strings.TrimSpace(string(output)),
			Err:       err,
		}
	}
	return nil
}

// Local is a directory that is already on disk.
type Local struct {
	Path string
}

// Sync returns the directory, failing when it does not exist.
func (l *Local) Sync(_ context.Context) (string, error) {
	path := ExpandPath(l.Path)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", &errors.NotFoundError{Resource: "directory", ID: path}
	}
	return path, nil
}

// Open returns a Remote for git URLs and a Local for anything else.
func Open(location, workDir, name, subdir string) Repository {
	if IsRemote(location) {
		return NewRemote(location, workDir, name, subdir)
	}
	return &Local{Path: filepath.Join(location, subdir)}
}

// IsRemote reports whether location looks like a git URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "ssh://") ||
		strings.HasPrefix(location, "git@") ||
		strings.HasSuffix(location, ".git")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
