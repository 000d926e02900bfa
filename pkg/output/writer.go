package output

import (
	"context"
	"os"
	"path/filepath"

	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/reconciler"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Artifacts are the rendered catalogs, ready to be written.
type Artifacts struct {
	Full Envelope
	Lean Envelope
}

type artifactFile struct {
	path string
	doc  Envelope
}

// Writer renders and writes catalog artifacts.
type Writer struct {
	options *options
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) (*Writer, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Writer{options: o}, nil
}

// Paths returns the full and lean artifact paths.
func (w *Writer) Paths() (full, lean string) {
	return filepath.Join(w.options.dir, w.options.fullName), filepath.Join(w.options.dir, w.options.leanName)
}

// Render finalizes, sorts and wraps the reconciled entries. Both envelopes
// carry the same timestamp.
func (w *Writer) Render(entries []reconciler.Entry) Artifacts {
	ts := w.options.now()

	full := make([]tokens.Token, 0, len(entries))
	var lean []tokens.Token
	for _, e := range entries {
		tok := e.Token.Finalize()
		full = append(full, tok)
		if e.Changed() {
			lean = append(lean, tok)
		}
	}
	Sort(full)
	Sort(lean)

	return Artifacts{
		Full: NewEnvelope(full, ts, w.options.version),
		Lean: NewEnvelope(lean, ts, w.options.version),
	}
}

// Write renders the artifacts and writes them. Nothing is renamed into
// place until every file has been written to a temporary file, and the
// pair is replaced together or not at all.
func (w *Writer) Write(ctx context.Context, entries []reconciler.Entry) (Artifacts, error) {
	logger := logging.FromContext(ctx)
	arts := w.Render(entries)

	if err := os.MkdirAll(w.options.dir, constants.DirPermissions); err != nil {
		return arts, errors.WrapIO("create", w.options.dir, err)
	}

	fullPath, leanPath := w.Paths()
	files := []artifactFile{{fullPath, arts.Full}}
	if w.options.lean {
		files = append(files, artifactFile{leanPath, arts.Lean})
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}
	for _, f := range files {
		data, err := f.doc.Marshal()
		if err != nil {
			cleanup()
			return arts, errors.WrapParse("json", f.path, err)
		}
		tmp, err := writeTemp(w.options.dir, filepath.Base(f.path), data)
		if err != nil {
			cleanup()
			return arts, err
		}
		temps = append(temps, tmp)
	}

	if err := commit(temps, files); err != nil {
		cleanup()
		return arts, err
	}
	for _, f := range files {
		logger.Info().
			Str("path", f.path).
			Int("tokens", len(f.doc.Tokens)).
			Msg("Wrote token list")
	}
	return arts, nil
}

// commit renames every temp file over its target. Existing targets are
// hard-linked to a backup first so a failed rename restores the files
// already replaced.
func commit(temps []string, files []artifactFile) error {
	backups := make([]string, len(files))
	dropBackups := func() {
		for _, b := range backups {
			if b != "" {
				_ = os.Remove(b)
			}
		}
	}
	for i, f := range files {
		info, err := os.Lstat(f.path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		b := temps[i] + ".prev"
		if err := os.Link(f.path, b); err != nil {
			dropBackups()
			return errors.WrapIO("backup", f.path, err)
		}
		backups[i] = b
	}

	for i, f := range files {
		if err := os.Rename(temps[i], f.path); err != nil {
			for j := range i {
				if backups[j] != "" {
					_ = os.Rename(backups[j], files[j].path)
					backups[j] = ""
				} else {
					_ = os.Remove(files[j].path)
				}
			}
			dropBackups()
			return errors.WrapIO("rename", f.path, err)
		}
	}
	dropBackups()
	return nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", errors.WrapIO("create", "temp file", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(path, constants.FilePermissions); err != nil {
		_ = os.Remove(path)
		return "", errors.WrapIO("chmod", path, err)
	}
	return path, nil
}
