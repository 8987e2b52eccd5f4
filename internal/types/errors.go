package types

import "errors"

// ErrNotFound is wrapped by repositories when a row does not exist so
// handlers can map it to 404 without string matching.
var ErrNotFound = errors.New("not found")
