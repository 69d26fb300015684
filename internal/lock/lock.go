// Package lock provides an advisory lock file guarding a backup root against
// concurrent runs. The design otherwise assumes a single process per root;
// the lock is an optional hardening layer, not a correctness guarantee.
package lock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// DefaultName is the lock file name used when no explicit path is
// configured; it is placed directly inside the backup root.
const DefaultName = ".dirkeep.lock"

// ErrHeld is returned when another process already holds the lock.
var ErrHeld = errors.New("backup root is locked by another run")

type Lock struct {
	path string
}

// Acquire creates the lock file exclusively and writes the holder's pid into
// it. A pre-existing file means another run is active.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrHeld, path)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}

	_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing lock file: %w", errors.Join(werr, cerr))
	}

	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	return os.Remove(l.path)
}
