// Package artifact writes rendered changelogs to disk together with a
// gzip-compressed copy, as expected by the Debian and RPM packaging steps.
package artifact

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// CompressedSuffix is appended to the artifact path for the gzip copy.
const CompressedSuffix = ".gz"

// Paths lists the files produced by Write.
type Paths struct {
	Plain      string
	Compressed string
}

// WriteError reports a failure to store an artifact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing changelog artifact %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write stores content at path and a gzip copy at path+".gz". Missing parent
// directories are created.
func Write(path string, content []byte) (Paths, error) {
	paths := Paths{Plain: path, Compressed: path + CompressedSuffix}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, &WriteError{Path: path, Err: fmt.Errorf("creating artifact directory %s: %w", dir, err)}
		}
	}

	if err := os.WriteFile(paths.Plain, content, 0o644); err != nil {
		return Paths{}, &WriteError{Path: paths.Plain, Err: err}
	}

	compressed, err := compress(content)
	if err != nil {
		return Paths{}, &WriteError{Path: paths.Compressed, Err: fmt.Errorf("compressing: %w", err)}
	}

	if err := os.WriteFile(paths.Compressed, compressed, 0o644); err != nil {
		return Paths{}, &WriteError{Path: paths.Compressed, Err: err}
	}

	return paths, nil
}

func compress(content []byte) ([]byte, error) {
	var buf bytes.Buffer

	gw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}

	if _, err := gw.Write(content); err != nil {
		return nil, err
	}

	if err := gw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
