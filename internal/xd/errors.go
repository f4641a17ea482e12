package xd

import (
	"errors"
	"fmt"
)

// Kind classifies why a load failed.
type Kind int

const (
	KindArchiveOpen Kind = iota + 1
	KindManifestParse
	KindArtworkSection
	KindArtboardParse
)

var (
	ErrArchiveOpen    = errors.New("archive open failed")
	ErrManifestParse  = errors.New("manifest parse failed")
	ErrArtworkSection = errors.New("artwork section not uniquely identifiable")
	ErrArtboardParse  = errors.New("artboard parse failed")

	ErrMissingArtworkSection   = errors.New("manifest has no artwork section")
	ErrAmbiguousArtworkSection = errors.New("manifest has more than one artwork section")
)

// String returns the metric label for k.
func (k Kind) String() string {
	switch k {
	case KindArchiveOpen:
		return "archive_open"
	case KindManifestParse:
		return "manifest_parse"
	case KindArtworkSection:
		return "artwork_section"
	case KindArtboardParse:
		return "artboard_parse"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindArchiveOpen:
		return ErrArchiveOpen
	case KindManifestParse:
		return ErrManifestParse
	case KindArtworkSection:
		return ErrArtworkSection
	case KindArtboardParse:
		return ErrArtboardParse
	default:
		return nil
	}
}

// LoadError is returned by Load for every failure. Entry names the container
// path or the archive entry that triggered it.
type LoadError struct {
	Kind  Kind
	Entry string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load xd: %s (%s): %v", e.Kind, e.Entry, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
