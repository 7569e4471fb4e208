package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"gitlab.com/tozd/go/errors"

	"github.com/aliskhannn/image-augmentor/internal/augment"
	"github.com/aliskhannn/image-augmentor/internal/config"
	"github.com/aliskhannn/image-augmentor/internal/infra/kafka/producer"
	"github.com/aliskhannn/image-augmentor/internal/naming"
	"github.com/aliskhannn/image-augmentor/internal/operation"
	"github.com/aliskhannn/image-augmentor/internal/storage/file"
	"github.com/aliskhannn/image-augmentor/internal/storage/object"
)

const defaultConfigPath = "./config/config.yml"

type rootOpts struct {
	configFile   string
	workers      int
	combinations []string
	dryRun       bool
	debug        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "image-augment [image-dir]",
		Short: "Write flipped, zoomed, blurred, noisy and translated copies of every image in a tree",
		Long: `image-augment walks a directory tree and writes, next to every image, one
augmented copy per requested combination. A combination is a comma-separated
list of operation codes applied left to right, e.g. "blur_2.0,noise_0.05".

Outputs are named <stem>__<code>__<code>.<ext> and are never regenerated when
already present, so repeated runs only fill in what is missing.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", defaultConfigPath, "config file path")
	f.IntVarP(&opts.workers, "workers", "w", 0, "worker pool size (overrides config)")
	// StringArray, not StringSlice: a combination itself contains commas.
	f.StringArrayVarP(&opts.combinations, "op", "o", nil, `operation combination, repeatable (e.g. --op fliph --op "blur_2.0,noise_0.05")`)
	f.BoolVar(&opts.dryRun, "dry-run", false, "log the files that would be written without writing them")
	f.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")

	return cmd
}

// setupLogging configures the global zerolog level based on flags.
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func run(cmd *cobra.Command, args []string, opts *rootOpts) error {
	// Context & signals: an interrupt stops the walk and drops queued units.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	setupLogging(opts.debug)

	cfg, err := loadConfig(cmd, args, opts)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to load config")
		return err
	}

	// Retry strategy for the object storage mirror and the event producer.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	sinks, closeSinks, err := setupSinks(ctx, cfg, strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to initialize sinks")
		return err
	}
	defer closeSinks()

	a := augment.New(
		operation.DefaultRegistry(),
		file.NewStorage(),
		augment.Options{
			Workers:    cfg.Augment.Workers,
			Extensions: naming.NewExtensions(cfg.Augment.Extensions...),
			DryRun:     cfg.Augment.DryRun,
		},
		sinks...,
	)

	stats, err := a.Execute(ctx, cfg.Augment.ImageDir, cfg.Augment.Combinations)
	if rejected(err) {
		return err
	}
	printSummary(stats, cfg.Augment.DryRun)

	return err
}

// rejected reports whether err stopped the run before any work started.
func rejected(err error) bool {
	return errors.Is(err, augment.ErrInvalidDirectory) || errors.Is(err, operation.ErrUnknownOperation)
}

// loadConfig reads the config file, if any, and applies flag overrides.
// The default config path is optional; an explicitly passed one is not.
func loadConfig(cmd *cobra.Command, args []string, opts *rootOpts) (*config.Config, error) {
	path := opts.configFile
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Augment.ImageDir = args[0]
	}
	if cmd.Flags().Changed("workers") {
		cfg.Augment.Workers = opts.workers
	}
	if len(opts.combinations) > 0 {
		cfg.Augment.Combinations = opts.combinations
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Augment.DryRun = opts.dryRun
	}

	return cfg, nil
}

// setupSinks connects the optional object storage mirror and event producer.
func setupSinks(ctx context.Context, cfg *config.Config, s retry.Strategy) ([]augment.Sink, func(), error) {
	var sinks []augment.Sink
	closers := []func(){}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.Storage.Enabled {
		st := cfg.Storage
		storage, err := object.NewStorage(ctx, st.Endpoint, st.AccessKey, st.SecretKey, st.BucketName, st.Prefix, st.UseSSL, s)
		if err != nil {
			return nil, closeAll, errors.Errorf("failed to connect to storage: %w", err)
		}
		sinks = append(sinks, storage)
		zlog.Logger.Info().Str("bucket", st.BucketName).Msg("mirroring outputs to object storage")
	}

	if cfg.Kafka.Enabled {
		p := producer.New(&cfg.Kafka, s)
		sinks = append(sinks, p)
		closers = append(closers, func() {
			if err := p.Close(); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to close kafka producer client")
			}
		})
		zlog.Logger.Info().Str("topic", cfg.Kafka.Topic).Msg("publishing events to kafka")
	}

	return sinks, closeAll, nil
}

func printSummary(stats augment.Stats, dryRun bool) {
	if dryRun {
		color.Cyan("Planned images: %d (dry run)", stats.Planned)
	} else {
		color.Green("Processed images: %d", stats.Produced)
	}

	color.White("  already present: %d, failed sources: %d, skipped files: %d",
		stats.Existing, stats.Failed, stats.SkippedUnsupported+stats.SkippedAugmented)

	if stats.Dropped > 0 {
		color.Yellow("  interrupted: %d sources not started", stats.Dropped)
	}
}
