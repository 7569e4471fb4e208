package augment

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wb-go/wbf/zlog"
	"gitlab.com/tozd/go/errors"

	"github.com/aliskhannn/image-augmentor/internal/model"
	"github.com/aliskhannn/image-augmentor/internal/naming"
)

// walk visits every directory under the run root and submits one work unit
// per eligible source file. It never waits for a unit to finish.
func (a *Augmenter) walk(ctx context.Context, r *run) error {
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			// Unreadable entries are reported and left out; the rest of the tree is still scanned.
			zlog.Logger.Warn().Err(err).Str("path", path).Msg("failed to read path, skipping")
			if d != nil && d.IsDir() && path != r.root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			r.stats.directories.Add(1)
			zlog.Logger.Info().Str("dir", path).Msg("processing directory")
			return nil
		}

		if !isFile(path, d) {
			return nil
		}

		a.classify(r, filepath.Dir(path), d.Name())

		return nil
	})
	if err != nil {
		return errors.Errorf("walk interrupted: %w", err)
	}

	return nil
}

// isFile accepts regular files and symlinks that resolve to one.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// classify skips unsupported files and existing augmentations and submits the rest.
func (a *Augmenter) classify(r *run, dir, name string) {
	switch {
	case !a.opts.Extensions.Supported(name):
		r.stats.skippedUnsupported.Add(1)
		zlog.Logger.Info().Str("dir", dir).Str("file", name).Msg("skipped")

	case naming.IsAugmented(name):
		r.stats.skippedAugmented.Add(1)
		zlog.Logger.Info().Str("dir", dir).Str("file", name).Msg("skipped augmentation for augmented file")

	default:
		unit := model.WorkUnit{Dir: dir, File: name, Chains: r.chains}
		if err := r.pool.Submit(func(ctx context.Context) { a.work(ctx, r, unit) }); err != nil {
			zlog.Logger.Error().Err(err).Str("dir", dir).Str("file", name).Msg("failed to submit work unit")
			return
		}
		r.stats.units.Add(1)
	}
}
