package docstore

import (
	"errors"
	"fmt"
)

// Kind classifies the errors a Database operation can return.
type Kind int

const (
	KindSchema Kind = iota
	KindNotFound
	KindFetch
	KindIndex
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindNotFound:
		return "not_found"
	case KindFetch:
		return "fetch"
	case KindIndex:
		return "index"
	case KindTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// ErrNotFound is the sentinel every KindNotFound Error wraps, so callers
// can test for it with errors.Is regardless of which path or collection
// was involved.
var ErrNotFound = errors.New("docstore: not found")

// ErrMissingTemplate is the sentinel every KindTemplate Error wraps: a
// document belongs to a union collection (one declaring Templates) but
// carries no "_template" field identifying which member it is.
var ErrMissingTemplate = errors.New("docstore: missing _template field")

// Error carries the collection/path context around a failure, following the
// wrap-with-context convention used throughout this module.
type Error struct {
	Kind       Kind
	Collection string
	Path       string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	switch {
	case e.Collection != "" && e.Path != "":
		return fmt.Sprintf("%s (collection=%s path=%s)", msg, e.Collection, e.Path)
	case e.Path != "":
		return fmt.Sprintf("%s (path=%s)", msg, e.Path)
	case e.Collection != "":
		return fmt.Sprintf("%s (collection=%s)", msg, e.Collection)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, collection, path string, err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		if de.Collection == "" {
			de.Collection = collection
		}
		if de.Path == "" {
			de.Path = path
		}
		return de
	}
	return &Error{Kind: kind, Collection: collection, Path: path, Err: err}
}

func notFoundErr(collection, path string) *Error {
	return &Error{Kind: KindNotFound, Collection: collection, Path: path, Err: ErrNotFound}
}

func templateErr(collection, path string) *Error {
	return &Error{Kind: KindTemplate, Collection: collection, Path: path, Err: ErrMissingTemplate}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMissingTemplate reports whether err is, or wraps, ErrMissingTemplate.
func IsMissingTemplate(err error) bool {
	return errors.Is(err, ErrMissingTemplate)
}
