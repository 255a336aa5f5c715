package domain

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by a Storage when the requested key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// ErrStructuralMismatch is returned when thaw cannot find a branch's parent in the skeleton.
var ErrStructuralMismatch = errors.New("structural mismatch")

// ErrUnknownClassTag is returned when a branch entry names a class absent from the registry.
var ErrUnknownClassTag = errors.New("unknown class tag")

// ErrCorruptPayload is returned when the stored payload cannot be decoded.
var ErrCorruptPayload = errors.New("corrupt payload")

// StructuralMismatchError reports the branch whose parent could not be located.
type StructuralMismatchError struct {
	Branch int    // index of the branch in the payload
	Node   string // name of the branch root
	Parent string // recorded parent name
	Root   string // name of the skeleton root searched
	Reason string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("%s: branch %d (%q) under parent %q in %q: %s",
		ErrStructuralMismatch, e.Branch, e.Node, e.Parent, e.Root, e.Reason)
}

func (e *StructuralMismatchError) Unwrap() error { return ErrStructuralMismatch }

// UnknownClassTagError reports the tag that could not be resolved.
type UnknownClassTagError struct {
	Tag string
}

func (e *UnknownClassTagError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownClassTag, e.Tag)
}

func (e *UnknownClassTagError) Unwrap() error { return ErrUnknownClassTag }
