package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// Package archive reads named entries from a zip container.
// Entry names are matched exactly; no path cleaning or case folding is applied.

var (
	ErrOpen          = errors.New("cannot open archive")
	ErrEntryNotFound = errors.New("entry not found")
	ErrClosed        = errors.New("archive is closed")
)

// OpenError reports a container that could not be opened (bad path or not a zip).
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open archive %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// EntryNotFoundError reports a read of an entry the container does not hold.
type EntryNotFoundError struct {
	Entry string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry %q not found", e.Entry)
}

func (e *EntryNotFoundError) Is(target error) bool { return target == ErrEntryNotFound }

// Archive is an open zip container. It is not safe for concurrent use;
// open one Archive per unit of work.
type Archive struct {
	name    string
	closer  io.Closer
	entries map[string]*zip.File
}

// Open opens the container at path. The returned Archive holds the file
// handle until Close is called.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return newArchive(path, &rc.Reader, rc), nil
}

// NewReader opens a container held in r (for example an in-memory upload).
// name is only used in error messages.
func NewReader(name string, r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &OpenError{Path: name, Err: err}
	}
	return newArchive(name, zr, nil), nil
}

func newArchive(name string, zr *zip.Reader, closer io.Closer) *Archive {
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		// First occurrence wins when a container repeats a name.
		if _, dup := entries[f.Name]; !dup {
			entries[f.Name] = f
		}
	}
	return &Archive{name: name, closer: closer, entries: entries}
}

// Name returns the path or label the archive was opened with.
func (a *Archive) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// Has reports whether the container holds an entry with exactly this name.
func (a *Archive) Has(entry string) bool {
	if a == nil || a.entries == nil {
		return false
	}
	_, ok := a.entries[entry]
	return ok
}

// ReadBytes returns the full decompressed contents of entry.
func (a *Archive) ReadBytes(entry string) ([]byte, error) {
	if a == nil || a.entries == nil {
		return nil, ErrClosed
	}
	f, ok := a.entries[entry]
	if !ok {
		return nil, &EntryNotFoundError{Entry: entry}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %q: %w", entry, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %q: %w", entry, err)
	}
	return data, nil
}

// ReadText returns the contents of entry as a string.
func (a *Archive) ReadText(entry string) (string, error) {
	data, err := a.ReadBytes(entry)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close releases the underlying file handle. It is safe to call more than
// once and on a nil Archive.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	a.entries = nil
	if a.closer == nil {
		return nil
	}
	c := a.closer
	a.closer = nil
	return c.Close()
}
