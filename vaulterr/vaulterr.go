// Package vaulterr defines the error taxonomy shared across the archive
// engine: command application, envelope decryption, datasource I/O and
// workspace reconciliation all surface one of these sentinels so callers
// can dispatch on errors.Is/errors.As instead of string-matching messages.
package vaulterr

import (
	"errors"
	"fmt"
)

// Sentinel errors a caller can test for with errors.Is.
var (
	// ErrUnrecognizedFormat indicates an envelope is missing its signature
	// line, or carries one from an incompatible major version.
	ErrUnrecognizedFormat = errors.New("vault: unrecognized envelope format")
	// ErrAuthenticationFailure indicates decryption or HMAC verification
	// failed, or a remote datasource rejected credentials.
	ErrAuthenticationFailure = errors.New("vault: authentication failure")
	// ErrNetwork indicates a transport-level failure talking to a remote
	// datasource.
	ErrNetwork = errors.New("vault: network error")
	// ErrConflict indicates a remote datasource rejected a save, e.g. due to
	// an ETag mismatch with content saved by another writer.
	ErrConflict = errors.New("vault: conflict")
	// ErrNotFound indicates a datasource has no content to load.
	ErrNotFound = errors.New("vault: not found")
)

// InvalidCommandError reports a history line that could not be decoded or
// applied: an unknown opcode, malformed argument quoting, or wrong arity.
type InvalidCommandError struct {
	Line   string
	Reason string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("vault: invalid command %q: %s", e.Line, e.Reason)
}

// NewInvalidCommand builds an InvalidCommandError.
func NewInvalidCommand(line, reason string) error {
	return &InvalidCommandError{Line: line, Reason: reason}
}

// EntityNotFoundError reports a command that referenced a group or entry ID
// absent from the tree.
type EntityNotFoundError struct {
	ID string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("vault: entity not found: %q", e.ID)
}

// NewEntityNotFound builds an EntityNotFoundError.
func NewEntityNotFound(id string) error {
	return &EntityNotFoundError{ID: id}
}

// DuplicateIDError reports a create command whose new ID already exists
// somewhere in the tree.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("vault: duplicate id: %q", e.ID)
}

// NewDuplicateID builds a DuplicateIDError.
func NewDuplicateID(id string) error {
	return &DuplicateIDError{ID: id}
}

// InvalidMoveError reports a structural violation, such as moving a group
// into its own descendant.
type InvalidMoveError struct {
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("vault: invalid move: %s", e.Reason)
}

// NewInvalidMove builds an InvalidMoveError.
func NewInvalidMove(reason string) error {
	return &InvalidMoveError{Reason: reason}
}

// InternalInvariantError indicates replay produced a tree inconsistent with
// the command log that produced it. Per spec this is fatal: release builds
// should crash rather than silently serve a corrupted archive.
type InternalInvariantError struct {
	Reason string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("vault: internal invariant violated: %s", e.Reason)
}

// NewInternalInvariant builds an InternalInvariantError without panicking,
// for callers (tests, diagnostics) that want the error value itself.
func NewInternalInvariant(reason string) error {
	return &InternalInvariantError{Reason: reason}
}

// Panic builds an InternalInvariantError and panics with it. A replay calls
// this when it leaves the tree inconsistent with the history that produced
// it (see history.Tree.Validate); there is no safe way to keep serving a
// corrupted archive.
func Panic(reason string) {
	panic(NewInternalInvariant(reason))
}
