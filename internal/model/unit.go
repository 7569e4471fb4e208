package model

import (
	"github.com/google/uuid"

	"github.com/aliskhannn/image-augmentor/internal/operation"
)

// WorkUnit is one eligible source file paired with every chain to attempt on it.
// It is consumed entirely by one worker and never retried.
type WorkUnit struct {
	Dir    string            // directory holding the source and its outputs
	File   string            // source file name within Dir
	Chains []operation.Chain // shared, read-only across units
}

// Output describes one augmented file written next to its source.
type Output struct {
	RunID  uuid.UUID // run that produced the file
	Root   string    // root directory of the run
	Dir    string    // directory of the source and the output
	Source string    // source file name
	Name   string    // output file name
	Codes  []string  // operation codes applied, in order
}
