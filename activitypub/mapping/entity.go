package mapping

import (
	"fmt"
)

// Identifies a local entity: entity type (eg "post", "user") and entity ID.
type Ref struct {
	TypeID string
	ID     string
}

func NewRef(typeID, id string) Ref {
	return Ref{TypeID: typeID, ID: id}
}

func (r Ref) IsZero() bool {
	return r.TypeID == "" || r.ID == ""
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.TypeID, r.ID)
}

// Read-only accessor for a local content entity: a bag of named, typed field values.
//
// Implementations must not return a nil FieldValue for a field where HasField is true and a value is present. Empty values (nil, empty string, empty slice) are all treated the same: as nothing to contribute.
type Entity interface {
	Ref() Ref
	Bundle() string
	HasField(name string) bool
	FieldValue(name string) any
	FieldType(name string) FieldType
}

// Declared type of an entity field, selecting the value conversion rule.
type FieldType string

const (
	FieldString        = FieldType("string")
	FieldStringLong    = FieldType("string_long")
	FieldTextLong      = FieldType("text_long")
	FieldTextSummary   = FieldType("text_with_summary")
	FieldDatetime      = FieldType("datetime")
	FieldCreated       = FieldType("created")
	FieldTimestamp     = FieldType("timestamp")
	FieldReference     = FieldType("entity_reference")
	FieldReferenceList = FieldType("entity_reference_list")
	FieldImage         = FieldType("image")
	FieldFile          = FieldType("file")
)

func (t FieldType) IsPlainText() bool {
	return t == FieldString || t == FieldStringLong
}

func (t FieldType) IsRichText() bool {
	return t == FieldTextLong || t == FieldTextSummary
}

func (t FieldType) IsDate() bool {
	return t == FieldDatetime || t == FieldCreated || t == FieldTimestamp
}

// True for field types which convert to a sequence of attachment descriptors
func (t FieldType) IsAttachment() bool {
	return t == FieldReferenceList || t == FieldImage || t == FieldFile
}

// An uploaded file or image, as stored in image and file fields.
type File struct {
	URL       string
	MediaType string
	Name      string
}

// Computes the canonical public URL of a local entity.
type URLBuilder interface {
	CanonicalURL(ref Ref) (string, error)
}
