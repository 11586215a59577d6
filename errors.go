package elemental

import "errors"

// Sentinel errors for registration, construction and state handling.
var (
	ErrNotRegistered             = errors.New("elemental: component is not registered")
	ErrAlreadyRegistered         = errors.New("elemental: component is already registered")
	ErrTemplateNotFound          = errors.New("elemental: template not found")
	ErrTemplateAlreadyRegistered = errors.New("elemental: template is already registered")
	ErrTemplateEmpty             = errors.New("elemental: template can not be empty")
	ErrHandlerNotDefined         = errors.New("elemental: event handler is not defined")
	ErrInvalidPrefix             = errors.New("elemental: invalid component prefix")
	ErrInvalidID                 = errors.New("elemental: invalid component id")
	ErrStateNotConsistent        = errors.New("elemental: state is not consistent")
	ErrMustOverrideDefaultState  = errors.New("elemental: state schema must define a default state")
	ErrMissingAttributeParser    = errors.New("elemental: observed attribute has no parser")
	ErrNoEventDetail             = errors.New("elemental: event carries no detail")
)

// IsNotRegistered checks if err reports construction of an unregistered type.
func IsNotRegistered(err error) bool {
	return errors.Is(err, ErrNotRegistered)
}

// IsAlreadyRegistered checks if err reports a duplicate tag claim.
func IsAlreadyRegistered(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered)
}

// IsTemplateError checks if err is any template registration or lookup error.
func IsTemplateError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrTemplateAlreadyRegistered) ||
		errors.Is(err, ErrTemplateEmpty)
}

// IsValidationError checks if err is a value object or state validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPrefix) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrStateNotConsistent) ||
		errors.Is(err, ErrMustOverrideDefaultState)
}
