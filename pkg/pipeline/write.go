package pipeline

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// writeAtomic writes data to a temporary file in path's directory and
// renames it onto path. The temporary file is removed on every failure, so
// path either keeps its previous content or receives all of data.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create temp file in %s", dir)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", tmp.Name())
	}
	if err = tmp.Chmod(0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "chmod %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "rename onto %s", path)
	}
	return nil
}
