package mapping

import (
	"errors"
)

var ErrInvalidConfig = errors.New("invalid mapping configuration")

// Mapping refers to a property not in the catalog for the configured object type
var ErrUnknownProperty = errors.New("unknown object property")

// Mapping refers to a field which the content type does not have
var ErrUnknownField = errors.New("unknown field")

// Mapped field's type can not supply a value for the property
var ErrIncompatibleField = errors.New("field type incompatible with property")
