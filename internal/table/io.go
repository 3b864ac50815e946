package table

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteOptions configures Write.
type WriteOptions struct {
	Format      Format
	Compression Compression // Parquet only
}

// DefaultWriteOptions returns auto-detected format with zstd compression.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Format:      FormatAuto,
		Compression: CompressionZstd,
	}
}

// Read loads the whole file at path.
func Read(path string, format Format) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	switch format.resolve(path) {
	case FormatParquet:
		st, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}
		return readParquet(f, st.Size())
	case FormatTSV:
		return readDelimited(bufio.NewReader(f), '\t')
	default:
		return readDelimited(bufio.NewReader(f), ',')
	}
}

// Write stores t at path. Data goes to a temp file in the same directory first and is
// renamed into place, so a failed run never leaves a partial output.
func Write(path string, t *Table, opts WriteOptions) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	switch opts.Format.resolve(path) {
	case FormatParquet:
		err = writeParquet(bw, t, opts.Compression)
	case FormatTSV:
		err = writeDelimited(bw, '\t', t)
	default:
		err = writeDelimited(bw, ',', t)
	}
	if err != nil {
		return err
	}

	if err = bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	// CreateTemp opens 0600; keep an existing output's mode, otherwise 0644
	mode := os.FileMode(0644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// CheckDistinct fails when in and out resolve to the same file.
func CheckDistinct(in, out string) error {
	a, err := filepath.Abs(in)
	if err != nil {
		return err
	}
	b, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: %s", ErrSamePath, in)
	}
	if ai, err := os.Stat(a); err == nil {
		if bi, err := os.Stat(b); err == nil && os.SameFile(ai, bi) {
			return fmt.Errorf("%w: %s", ErrSamePath, in)
		}
	}
	return nil
}
