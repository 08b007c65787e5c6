package file

import (
	"os"
	"path/filepath"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// document is one JSON file holding a value of T. Writes go to a temp
// file in the same directory and are renamed over the target.
type document[T any] struct {
	path   string
	mu     sync.RWMutex
	value  T
	exists bool
}

func openDocument[T any](path string) (*document[T], error) {
	d := &document[T]{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, crerr.Wrapf(err, "read %s", path)
	}
	if len(raw) == 0 {
		return d, nil
	}
	if err := sonic.Unmarshal(raw, &d.value); err != nil {
		return nil, crerr.Wrapf(err, "decode %s", path)
	}
	d.exists = true
	return d, nil
}

func (d *document[T]) read(fn func(value T, exists bool)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.value, d.exists)
}

func (d *document[T]) write(value T) error {
	encoded, err := sonic.ConfigStd.MarshalIndent(value, "", "  ")
	if err != nil {
		return crerr.Wrapf(err, "encode %s", d.path)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return crerr.Wrapf(err, "create temp file for %s", d.path)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return crerr.Wrapf(err, "replace %s", d.path)
	}

	d.value = value
	d.exists = true
	return nil
}

func (d *document[T]) size() (int64, error) {
	info, err := os.Stat(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, crerr.Wrapf(err, "stat %s", d.path)
	}
	return info.Size(), nil
}
