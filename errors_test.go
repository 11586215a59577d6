package elemental

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pthm/elemental/lib/encoding"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrNotRegistered,
		ErrAlreadyRegistered,
		ErrTemplateNotFound,
		ErrTemplateAlreadyRegistered,
		ErrTemplateEmpty,
		ErrHandlerNotDefined,
		ErrInvalidPrefix,
		ErrInvalidID,
		ErrStateNotConsistent,
		ErrMustOverrideDefaultState,
		ErrMissingAttributeParser,
		ErrNoEventDetail,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestIsNotRegistered(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrNotRegistered", ErrNotRegistered, true},
		{"wrapped ErrNotRegistered", fmt.Errorf("wrapped: %w", ErrNotRegistered), true},
		{"other error", errors.New("other error"), false},
		{"ErrAlreadyRegistered", ErrAlreadyRegistered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsNotRegistered(tt.err)
			if result != tt.expect {
				t.Errorf("IsNotRegistered(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestIsAlreadyRegistered(t *testing.T) {
	if !IsAlreadyRegistered(fmt.Errorf("%w: Hero", ErrAlreadyRegistered)) {
		t.Error("IsAlreadyRegistered() = false for wrapped ErrAlreadyRegistered")
	}
	if IsAlreadyRegistered(ErrTemplateAlreadyRegistered) {
		t.Error("IsAlreadyRegistered() = true for ErrTemplateAlreadyRegistered")
	}
}

func TestIsTemplateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrTemplateNotFound", ErrTemplateNotFound, true},
		{"ErrTemplateAlreadyRegistered", ErrTemplateAlreadyRegistered, true},
		{"wrapped ErrTemplateEmpty", fmt.Errorf("ctx: %w", ErrTemplateEmpty), true},
		{"ErrNotRegistered", ErrNotRegistered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsTemplateError(tt.err)
			if result != tt.expect {
				t.Errorf("IsTemplateError(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidPrefix", ErrInvalidPrefix, true},
		{"ErrInvalidID", ErrInvalidID, true},
		{"ErrStateNotConsistent", fmt.Errorf("%w: negative", ErrStateNotConsistent), true},
		{"ErrMustOverrideDefaultState", ErrMustOverrideDefaultState, true},
		{"ErrHandlerNotDefined", ErrHandlerNotDefined, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidationError(tt.err)
			if result != tt.expect {
				t.Errorf("IsValidationError(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestIsCodecError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidFormat", encoding.ErrInvalidFormat, true},
		{"ErrSignatureInvalid", encoding.ErrSignatureInvalid, true},
		{"wrapped ErrDecryptFailed", fmt.Errorf("state: %w", encoding.ErrDecryptFailed), true},
		{"ErrNotAMap", encoding.ErrNotAMap, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsCodecError(tt.err)
			if result != tt.expect {
				t.Errorf("IsCodecError(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}
