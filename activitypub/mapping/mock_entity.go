package mapping

import (
	"fmt"
)

// In-memory entity, for use in tests and for content which does not live in local storage.
type MockEntity struct {
	EntityRef    Ref
	EntityBundle string
	Values       map[string]any
	Types        map[string]FieldType
}

var _ Entity = (*MockEntity)(nil)

func NewMockEntity(ref Ref, bundle string) *MockEntity {
	return &MockEntity{
		EntityRef:    ref,
		EntityBundle: bundle,
		Values:       make(map[string]any),
		Types:        make(map[string]FieldType),
	}
}

// Adds (or replaces) a field, returning the entity for chaining.
func (e *MockEntity) With(name string, ft FieldType, val any) *MockEntity {
	e.Types[name] = ft
	e.Values[name] = val
	return e
}

func (e *MockEntity) Ref() Ref {
	return e.EntityRef
}

func (e *MockEntity) Bundle() string {
	return e.EntityBundle
}

func (e *MockEntity) HasField(name string) bool {
	_, ok := e.Types[name]
	return ok
}

func (e *MockEntity) FieldValue(name string) any {
	return e.Values[name]
}

func (e *MockEntity) FieldType(name string) FieldType {
	return e.Types[name]
}

// Builds URLs of the form <base>/<type>/<id>, for use in tests.
type MockURLs struct {
	Base string
}

func (m MockURLs) CanonicalURL(ref Ref) (string, error) {
	if ref.IsZero() {
		return "", fmt.Errorf("can not build URL for empty ref")
	}
	return m.Base + "/" + ref.TypeID + "/" + ref.ID, nil
}
