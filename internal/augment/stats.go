package augment

import "sync/atomic"

// Stats summarizes a finished run.
type Stats struct {
	Directories        int64 // directories visited
	Units              int64 // source files submitted to the pool
	Produced           int64 // augmented files written
	Existing           int64 // targets skipped because they were already on disk
	Planned            int64 // targets that would be written in dry-run mode
	Failed             int64 // units abandoned because of an error
	Dropped            int64 // queued units never started because the run was interrupted
	SkippedUnsupported int64 // files without a supported extension
	SkippedAugmented   int64 // files that are themselves augmentations
}

// counters is shared by the dispatcher and every worker of one run.
type counters struct {
	directories        atomic.Int64
	units              atomic.Int64
	produced           atomic.Int64
	existing           atomic.Int64
	planned            atomic.Int64
	failed             atomic.Int64
	skippedUnsupported atomic.Int64
	skippedAugmented   atomic.Int64
}

// snapshot must only be called after the pool has drained.
func (c *counters) snapshot(dropped int) Stats {
	return Stats{
		Directories:        c.directories.Load(),
		Units:              c.units.Load(),
		Produced:           c.produced.Load(),
		Existing:           c.existing.Load(),
		Planned:            c.planned.Load(),
		Failed:             c.failed.Load(),
		Dropped:            int64(dropped),
		SkippedUnsupported: c.skippedUnsupported.Load(),
		SkippedAugmented:   c.skippedAugmented.Load(),
	}
}
