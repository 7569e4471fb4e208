package augment

import (
	"context"
	"fmt"
	"image"

	"github.com/wb-go/wbf/zlog"
	"gitlab.com/tozd/go/errors"

	"github.com/aliskhannn/image-augmentor/internal/model"
	"github.com/aliskhannn/image-augmentor/internal/naming"
	"github.com/aliskhannn/image-augmentor/internal/operation"
)

// work processes one unit. The first error abandons the rest of the unit;
// outputs already written for earlier chains are kept.
func (a *Augmenter) work(ctx context.Context, r *run, unit model.WorkUnit) {
	written, err := a.augment(ctx, r, unit)
	if err != nil {
		r.stats.failed.Add(1)
		zlog.Logger.Error().
			Err(err).
			Str("dir", unit.Dir).
			Str("file", unit.File).
			Str("trace", fmt.Sprintf("%+v", err)).
			Msg("failed to augment image")
		return
	}

	zlog.Logger.Info().
		Str("dir", unit.Dir).
		Str("file", unit.File).
		Int("written", written).
		Msg("processed image")
}

// augment returns the number of outputs written for unit.
func (a *Augmenter) augment(ctx context.Context, r *run, unit model.WorkUnit) (int, error) {
	// The source is decoded at most once per unit and shared by every chain.
	var src image.Image
	written := 0

	for _, chain := range unit.Chains {
		if err := ctx.Err(); err != nil {
			return written, errors.WithStack(err)
		}

		codes := chain.Codes()
		target := naming.Build(unit.File, codes...)

		exists, err := a.fileStorage.Exists(unit.Dir, target)
		if err != nil {
			return written, err
		}
		if exists {
			r.stats.existing.Add(1)
			continue
		}

		if a.opts.DryRun {
			r.stats.planned.Add(1)
			zlog.Logger.Info().Str("dir", unit.Dir).Str("file", target).Msg("would write")
			continue
		}

		if src == nil {
			src, err = a.fileStorage.Load(unit.Dir, unit.File)
			if err != nil {
				return written, err
			}
		}

		if err := a.produce(ctx, r, unit, chain, src, target); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

// produce applies chain to src and writes the result under target.
func (a *Augmenter) produce(ctx context.Context, r *run, unit model.WorkUnit, chain operation.Chain, src image.Image, target string) error {
	out, err := chain.Apply(src)
	if err != nil {
		return errors.Errorf("failed to process %s with %s: %w", unit.File, chain, err)
	}

	if err := a.fileStorage.Save(unit.Dir, target, out); err != nil {
		return err
	}
	r.stats.produced.Add(1)

	zlog.Logger.Debug().Str("dir", unit.Dir).Str("file", target).Msg("image saved")

	a.notify(ctx, model.Output{
		RunID:  r.id,
		Root:   r.root,
		Dir:    unit.Dir,
		Source: unit.File,
		Name:   target,
		Codes:  chain.Codes(),
	})

	return nil
}

// notify hands a written output to every sink. Failures are only logged.
func (a *Augmenter) notify(ctx context.Context, out model.Output) {
	for _, s := range a.sinks {
		if err := s.Produced(ctx, out); err != nil {
			zlog.Logger.Warn().
				Err(err).
				Str("dir", out.Dir).
				Str("file", out.Name).
				Msg("failed to notify sink")
		}
	}
}
