package query

import (
	"fmt"
	"strings"

	"github.com/inkdex/inkdex/pkg/bridge"
)

// Error wraps a hydration failure with the collection/path context it
// happened under.
type Error struct {
	Collection string
	Path       string
	Err        error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s (collection=%s path=%s)", e.Err, e.Collection, e.Path)
	}
	return fmt.Sprintf("%s (collection=%s)", e.Err, e.Collection)
}

func (e *Error) Unwrap() error { return e.Err }

// wrapHydrationError follows the design note that a hydration failure for a
// path under the bridge's generated config namespace should be re-raised
// unadorned — those paths are produced by this module itself, and wrapping
// them in a query-specific error would hide that origin from the caller.
func wrapHydrationError(collection, path string, err error) error {
	if strings.HasPrefix(path, bridge.GeneratedConfigDir+"/") {
		return err
	}
	return &Error{Collection: collection, Path: path, Err: err}
}
