// File: asset/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package asset

import (
	"fmt"

	"github.com/momentics/virst/api"
)

// ReadError reports an I/O failure while reading an asset.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("asset: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is matches api.ErrAssetRead.
func (e *ReadError) Is(target error) bool { return target == api.ErrAssetRead }

// FormatError reports content that could not be turned into an asset.
type FormatError struct {
	Path   string
	Reason string
	Err    error // optional parser error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asset: format %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("asset: format %s: %s", e.Path, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is matches api.ErrAssetFormat.
func (e *FormatError) Is(target error) bool { return target == api.ErrAssetFormat }
