// Package rlmerr defines the error taxonomy shared by every layer of rlm:
// the query/edit operations, the indexer, the CLI, and the MCP tool server
// all return errors of this shape so that each layer can translate them
// into its own surface (exit code, JSON envelope) without re-classifying.
package rlmerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for translation at the CLI/tool-server boundary.
type Kind int

const (
	// Other is the catch-all kind for errors with no more specific category.
	Other Kind = iota
	// NotFound means a file path or symbol was not present in the index.
	NotFound
	// IO means a filesystem read/write failed.
	IO
	// Storage means the underlying database returned an error.
	Storage
	// Parse means grammar setup, query compilation, or tree extraction failed.
	Parse
	// Syntax means an edit would produce contents that fail to parse.
	Syntax
	// Config means configuration was malformed or missing where required.
	Config
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case IO:
		return "IO"
	case Storage:
		return "Storage"
	case Parse:
		return "Parse"
	case Syntax:
		return "Syntax"
	case Config:
		return "Config"
	default:
		return "Other"
	}
}

// Error is a typed error carrying a Kind plus the query context it occurred in.
type Error struct {
	K       Kind
	Path    string
	Detail  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.K, e.Path, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.K, e.Detail)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an Error with no wrapped cause.
func New(k Kind, path, detail string) *Error {
	return &Error{K: k, Path: path, Detail: detail}
}

// Wrap builds an Error wrapping an underlying cause. It returns a true nil
// (not a typed-nil-in-an-interface) when err is nil, so callers can write
// `return rlmerr.Wrap(Kind, path, err)` directly as the tail of a function
// returning the plain `error` interface.
func Wrap(k Kind, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{K: k, Path: path, Detail: err.Error(), Wrapped: err}
}

// KindOf extracts the Kind of err, defaulting to Other if err is not (or
// does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.K
	}
	return Other
}
