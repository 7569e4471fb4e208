package augment

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"gitlab.com/tozd/go/errors"

	"github.com/aliskhannn/image-augmentor/internal/model"
	"github.com/aliskhannn/image-augmentor/internal/naming"
	"github.com/aliskhannn/image-augmentor/internal/operation"
	"github.com/aliskhannn/image-augmentor/internal/pool"
)

// ErrInvalidDirectory is returned when the root to scan does not exist or is not a directory.
var ErrInvalidDirectory = errors.Base("invalid image directory")

// fileStorage defines the interface for reading and writing images next to their sources.
type fileStorage interface {
	Exists(dir, filename string) (bool, error)
	Load(dir, filename string) (image.Image, error)
	Save(dir, filename string, img image.Image) error
}

// Sink is notified after every output written to disk, e.g. to mirror it
// to object storage or publish an event. Sink errors never undo the write.
type Sink interface {
	Produced(ctx context.Context, out model.Output) error
}

// Options configures an Augmenter.
type Options struct {
	Workers    int
	Extensions naming.Extensions
	DryRun     bool
}

// Augmenter walks a directory tree and writes augmented copies of every
// eligible image for each requested operation chain.
type Augmenter struct {
	registry    *operation.Registry
	fileStorage fileStorage
	sinks       []Sink
	opts        Options
}

// New creates a new Augmenter.
func New(r *operation.Registry, fs fileStorage, opts Options, sinks ...Sink) *Augmenter {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Augmenter{
		registry:    r,
		fileStorage: fs,
		sinks:       sinks,
		opts:        opts,
	}
}

// run holds the state of one Execute call.
type run struct {
	id     uuid.UUID
	root   string
	chains []operation.Chain
	pool   *pool.Pool
	stats  counters
}

// Execute augments every eligible image under imageDir with each combination.
// The directory and every combination are validated before any work starts;
// a failure there aborts the run with nothing written. Errors inside a single
// source file are logged and only affect that file.
func (a *Augmenter) Execute(ctx context.Context, imageDir string, combinations []string) (Stats, error) {
	zlog.Logger.Info().Msg("starting image processing")

	info, err := os.Stat(imageDir)
	if err != nil || !info.IsDir() {
		zlog.Logger.Error().Str("dir", imageDir).Msg("invalid image directory")
		return Stats{}, errors.Errorf("%w: %s", ErrInvalidDirectory, imageDir)
	}

	// WalkDir does not descend into a symlinked root, so walk its target.
	root, err := filepath.EvalSymlinks(imageDir)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("dir", imageDir).Msg("invalid image directory")
		return Stats{}, errors.Errorf("%w: %s", ErrInvalidDirectory, imageDir)
	}

	chains, err := operation.ParseChains(a.registry, combinations)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("unknown operation")
		return Stats{}, err
	}

	r := &run{
		id:     uuid.New(),
		root:   root,
		chains: chains,
		pool:   pool.New(ctx, a.opts.Workers),
	}

	zlog.Logger.Info().
		Str("run_id", r.id.String()).
		Int("workers", a.opts.Workers).
		Int("chains", len(chains)).
		Bool("dry_run", a.opts.DryRun).
		Msg("thread pool initialised")

	walkErr := a.walk(ctx, r)

	zlog.Logger.Info().Msg("waiting for workers to complete")
	dropped := r.pool.Wait()

	stats := r.stats.snapshot(dropped)
	zlog.Logger.Info().
		Str("run_id", r.id.String()).
		Int64("produced", stats.Produced).
		Int64("existing", stats.Existing).
		Int64("failed", stats.Failed).
		Msgf("processed images: %d", stats.Produced)

	if walkErr != nil {
		return stats, walkErr
	}

	return stats, nil
}
