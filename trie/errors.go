package trie

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// MissingNodeError is returned when a Hash node's target cannot be
// resolved through the store — the trie's closure over its own hash
// references broken. It is fatal for the operation in progress.
type MissingNodeError struct {
	NodeHash common.Hash // hash of the missing node
	Path     []byte      // hex-nibble path from the root to the missing node
	err      error       // wrapped store error, if any
}

func (err *MissingNodeError) Error() string {
	if err.err != nil {
		return fmt.Sprintf("missing trie node %x (path %x): %v", err.NodeHash, err.Path, err.err)
	}
	return fmt.Sprintf("missing trie node %x (path %x)", err.NodeHash, err.Path)
}

func (err *MissingNodeError) Unwrap() error { return err.err }

// corruptionError reports a store-backed node whose re-hash does not match
// the hash it was fetched by, or whose decoded shape violates the node
// taxonomy (e.g. a list that is neither 2 nor 17 elements long).
type corruptionError struct {
	reason string
}

func (e *corruptionError) Error() string { return "trie: corruption: " + e.reason }

func errCorruption(format string, args ...any) error {
	return &corruptionError{reason: fmt.Sprintf(format, args...)}
}

// IsCorruption reports whether err denotes store corruption as opposed to
// a plain I/O failure or absence.
func IsCorruption(err error) bool {
	var ce *corruptionError
	return errors.As(err, &ce)
}

// isDecodeFailure reports whether err reflects something wrong with a
// stored node's bytes (a malformed wire encoding or a re-hash mismatch) as
// opposed to the node simply not being found. Callers use this to avoid
// masking a genuine corruption as an ordinary MissingNodeError.
func isDecodeFailure(err error) bool {
	if IsCorruption(err) {
		return true
	}
	_, ok := err.(*decodeError)
	return ok
}

// decodeError wraps a decode failure with the path of node references
// leading to it, innermost first, for debugging malformed wire data.
type decodeError struct {
	what  error
	stack []string
}

func wrapError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	if decErr, ok := err.(*decodeError); ok {
		decErr.stack = append(decErr.stack, ctx)
		return decErr
	}
	return &decodeError{err, []string{ctx}}
}

func (err *decodeError) Error() string {
	return fmt.Sprintf("%v (decode path: %s)", err.what, strings.Join(err.stack, "<-"))
}

func (err *decodeError) Unwrap() error { return err.what }
