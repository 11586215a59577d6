package elemental

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultPrefix is the prefix of generated tag names unless a registry or
// registration overrides it.
const DefaultPrefix = "el"

var (
	prefixPattern = regexp.MustCompile(`^[a-zA-Z]{1,10}([_-]?[0-9a-zA-Z]{0,10}){0,2}$`)
	idPattern     = regexp.MustCompile(`^[a-zA-Z]+[_-]?[0-9a-zA-Z]*$`)
)

// Prefix is a validated tag name prefix. The zero Prefix means "use the
// registry default".
type Prefix struct {
	value string
}

// NewPrefix validates s as a tag name prefix.
func NewPrefix(s string) (Prefix, error) {
	if !prefixPattern.MatchString(s) {
		return Prefix{}, fmt.Errorf("%w: %q", ErrInvalidPrefix, s)
	}
	return Prefix{value: s}, nil
}

// MustPrefix is NewPrefix that panics on invalid input.
func MustPrefix(s string) Prefix {
	p, err := NewPrefix(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the prefix.
func (p Prefix) String() string {
	return p.value
}

// IsZero reports whether p is unset.
func (p Prefix) IsZero() bool {
	return p.value == ""
}

// ID is a validated component instance id. The zero ID means "unset".
type ID struct {
	value string
}

// NewID validates s as a component id.
func NewID(s string) (ID, error) {
	if !idPattern.MatchString(s) {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID{value: s}, nil
}

// MustID is NewID that panics on invalid input.
func MustID(s string) ID {
	id, err := NewID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// RandomID returns a fresh id that satisfies the id pattern.
func RandomID() ID {
	return ID{value: "c" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// String returns the id.
func (id ID) String() string {
	return id.value
}

// IsZero reports whether id is unset.
func (id ID) IsZero() bool {
	return id.value == ""
}
