package watermark

import (
	"errors"
	"fmt"
)

var errNilMark = errors.New("watermark image is nil")

// ErrCancelled marks a batch run that was stopped by the caller. Partial
// results accumulated before the stop are still valid.
var ErrCancelled = errors.New("batch cancelled")

// ValidationError reports a bad or missing spec field. The caller must fix
// the spec before retrying.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AssetError reports an image that could not be read or decoded.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("asset error: %v", e.Err)
	}
	return fmt.Sprintf("asset error: %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// IOError reports a failed write during export. Batch processing records it
// and continues with the next item.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write error: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
