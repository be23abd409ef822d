// Package store contains the typed repositories over the document store.
// Driver error shapes never leave this package: expected outcomes are mapped
// to the sentinel errors below so callers switch on explicit variants.
package store

import "github.com/pkg/errors"

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
)
