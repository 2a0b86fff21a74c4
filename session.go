package gnucash

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Session is a scoped handle on a book file. Opening takes a lock file
// next to the ledger; End releases it and must run on every exit path,
// error paths included, or the ledger stays locked for the next run.
// In-memory changes reach disk only through an explicit Save.
type Session struct {
	path  string
	book  *Book
	ended bool
}

const lockSuffix = ".LCK"

// Open loads an existing book file and acquires its lock.
func Open(path string) (*Session, error) {
	if err := acquireLock(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		releaseLock(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ledger file %q does not exist", path)
		}
		return nil, fmt.Errorf("cannot open ledger %q: %w", path, err)
	}
	defer f.Close()

	book, err := DecodeBook(f)
	if err != nil {
		releaseLock(path)
		return nil, fmt.Errorf("cannot read ledger %q: %w", path, err)
	}
	return &Session{path: path, book: book}, nil
}

// Create starts a session on a new, empty book. The file must not
// already exist; it is written on the first Save.
func Create(path string) (*Session, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("ledger file %q already exists", path)
	}
	if err := acquireLock(path); err != nil {
		return nil, err
	}
	return &Session{path: path, book: NewBook()}, nil
}

// Book returns the in-memory book of the session.
func (s *Session) Book() *Book { return s.book }

// Save writes the book back to the ledger file. The write goes through
// a temporary file and a rename, so a failed save never truncates the
// previous ledger.
func (s *Session) Save() error {
	if s.ended {
		return fmt.Errorf("session on %q has ended", s.path)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("cannot create temp file for %q: %w", s.path, err)
	}
	tmpName := tmp.Name()
	if err := EncodeBook(tmp, s.book); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cannot encode ledger %q: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot write ledger %q: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot replace ledger %q: %w", s.path, err)
	}
	return nil
}

// End releases the session lock. It is idempotent and discards any
// unsaved change.
func (s *Session) End() error {
	if s.ended {
		return nil
	}
	s.ended = true
	return releaseLock(s.path)
}

func acquireLock(path string) error {
	f, err := os.OpenFile(path+lockSuffix, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("ledger %q is locked (stale %s file?)", path, lockSuffix)
		}
		return fmt.Errorf("cannot lock ledger %q: %w", path, err)
	}
	return f.Close()
}

func releaseLock(path string) error {
	if err := os.Remove(path + lockSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot release lock on %q: %w", path, err)
	}
	return nil
}
