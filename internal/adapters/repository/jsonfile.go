package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/learnmap/pkg/logger"
)

// jsonFile is one JSON array on disk guarded by its own lock. Readers share
// the lock; a read-modify-write cycle holds it exclusively.
type jsonFile[T any] struct {
	mu   sync.RWMutex
	path string
	log  logger.Logger
}

func newJSONFile[T any](path string, log logger.Logger) *jsonFile[T] {
	return &jsonFile[T]{path: path, log: log}
}

// read loads the collection. The caller holds mu. A missing file is an empty
// collection; so is a malformed one, with a warning, to keep serving.
func (f *jsonFile[T]) read(ctx context.Context) ([]T, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		if f.log != nil {
			f.log.Warn(ctx, "data file is not a valid JSON array; treating it as empty",
				logger.String("path", f.path),
				logger.Error(fmt.Errorf("%w: %v", ErrCorruptDataFile, err)),
			)
		}
		return nil, nil
	}
	return items, nil
}

// staged is a fully written and synced temp file waiting to replace its target.
type staged struct {
	tmp    string
	target string
}

func (s *staged) apply() error {
	if err := os.Rename(s.tmp, s.target); err != nil {
		return fmt.Errorf("replacing %s: %w", s.target, err)
	}
	return nil
}

func (s *staged) discard() { _ = os.Remove(s.tmp) }

// stage writes the collection to a temp file next to the target. Nothing is
// visible to readers until apply. The caller holds mu exclusively.
func (f *jsonFile[T]) stage(items []T) (*staged, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	st := &staged{tmp: tmp.Name(), target: f.path}

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		st.discard()
		return nil, fmt.Errorf("writing %s: %w", st.tmp, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		st.discard()
		return nil, fmt.Errorf("syncing %s: %w", st.tmp, err)
	}
	if err := tmp.Close(); err != nil {
		st.discard()
		return nil, fmt.Errorf("closing %s: %w", st.tmp, err)
	}
	return st, nil
}

// applyAll runs every stage before renaming anything, so a failed write
// leaves all files as they were. Only a failing rename after the first can
// still leave a partial commit behind.
func applyAll(stages ...func() (*staged, error)) error {
	ready := make([]*staged, 0, len(stages))
	for _, stage := range stages {
		st, err := stage()
		if err != nil {
			for _, r := range ready {
				r.discard()
			}
			return err
		}
		ready = append(ready, st)
	}
	for i, st := range ready {
		if err := st.apply(); err != nil {
			for _, r := range ready[i:] {
				r.discard()
			}
			return err
		}
	}
	return nil
}
