package file

import (
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"gitlab.com/tozd/go/errors"
)

// TempPattern names the temporary files Save writes before renaming them
// into place. It is short so that any target that fits NAME_MAX still does.
const TempPattern = ".augment-*.tmp"

// Storage reads and writes images on the local filesystem. Outputs are
// written next to their sources; the encoding format follows the target
// file extension.
type Storage struct{}

// NewStorage creates a new Storage instance.
func NewStorage() *Storage {
	return &Storage{}
}

// Exists reports whether a file with the given name is present in dir.
func (s *Storage) Exists(dir, filename string) (bool, error) {
	_, err := os.Stat(filepath.Join(dir, filename))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, errors.Errorf("failed to stat %s: %w", filename, err)
}

// Load opens and decodes the image stored in dir under filename.
func (s *Storage) Load(dir, filename string) (image.Image, error) {
	img, err := imaging.Open(filepath.Join(dir, filename))
	if err != nil {
		return nil, errors.Errorf("failed to decode image %s: %w", filename, err)
	}

	return img, nil
}

// Save encodes img into dir under filename. The data is written to a
// temporary file in the same directory and renamed into place, so a reader
// never observes a partially written output under its final name.
func (s *Storage) Save(dir, filename string, img image.Image) (err error) {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return errors.Errorf("failed to detect format of %s: %w", filename, err)
	}

	tmp, err := os.CreateTemp(dir, TempPattern)
	if err != nil {
		return errors.Errorf("failed to create temporary file for %s: %w", filename, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return errors.Errorf("failed to set permissions for %s: %w", filename, err)
	}
	if err = imaging.Encode(tmp, img, format); err != nil {
		return errors.Errorf("failed to encode image %s: %w", filename, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Errorf("failed to write image %s: %w", filename, err)
	}

	dst := filepath.Join(dir, filename)
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return errors.Errorf("failed to save image %s: %w", dst, err)
	}

	return nil
}
