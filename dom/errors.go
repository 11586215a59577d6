package dom

import "errors"

// Sentinel errors reported by the host runtime.
var (
	ErrNotSupported   = errors.New("dom: operation not supported")
	ErrAlreadyDefined = errors.New("dom: custom element already defined")
	ErrInvalidName    = errors.New("dom: invalid custom element name")
	ErrSyntax         = errors.New("dom: syntax error")
	ErrHierarchy      = errors.New("dom: hierarchy request error")
)
