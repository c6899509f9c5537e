package mapping

import (
	"errors"
	"fmt"

	"github.com/bluesky-social/apbridge/activitypub/vocab"
)

// Declares which local field supplies a protocol property. An empty FieldName leaves the property unmapped.
type PropertyMapping struct {
	Property  string `json:"property" yaml:"property"`
	FieldName string `json:"field_name" yaml:"field_name"`
}

// Publishing configuration for a single content type. Treated as immutable once loaded.
type Config struct {
	TargetEntityTypeID string             `json:"target_entity_type_id" yaml:"target_entity_type_id"`
	TargetBundle       string             `json:"target_bundle" yaml:"target_bundle"`
	Object             vocab.ObjectType   `json:"object" yaml:"object"`
	Activity           vocab.ActivityType `json:"activity" yaml:"activity"`
	FieldMapping       []PropertyMapping  `json:"field_mapping" yaml:"field_mapping"`
}

const (
	DefaultEntityTypeID = "post"
	DefaultBundle       = "post"
)

func DefaultConfig() Config {
	return Config{
		TargetEntityTypeID: DefaultEntityTypeID,
		TargetBundle:       DefaultBundle,
		FieldMapping:       []PropertyMapping{},
	}
}

// Whether this configuration is the one for the given entity's content type
func (c Config) Applies(ent Entity) bool {
	if ent == nil {
		return false
	}
	return ent.Ref().TypeID == c.TargetEntityTypeID && ent.Bundle() == c.TargetBundle
}

// Returns the configured field for a property, following last-write-wins for repeated properties.
func (c Config) FieldFor(property string) (string, bool) {
	field := ""
	found := false
	for _, m := range c.FieldMapping {
		if m.Property == property {
			field = m.FieldName
			found = true
		}
	}
	return field, found && field != ""
}

// Checks the configuration against the property catalog and, if reg is not nil, against the content type schema.
//
// All problems are reported, joined in to a single error.
func (c Config) Validate(reg *Registry) error {
	var errs []error
	if c.TargetEntityTypeID == "" {
		errs = append(errs, fmt.Errorf("%w: missing target entity type", ErrInvalidConfig))
	}
	if c.TargetBundle == "" {
		errs = append(errs, fmt.Errorf("%w: missing target bundle", ErrInvalidConfig))
	}
	if _, err := vocab.ParseObjectType(string(c.Object)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if _, err := vocab.ParseActivityType(string(c.Activity)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	schemaKnown := false
	if reg != nil {
		_, schemaKnown = reg.Fields(c.TargetEntityTypeID, c.TargetBundle)
		if !schemaKnown {
			errs = append(errs, fmt.Errorf("%w: no schema for %s bundle %q", ErrInvalidConfig, c.TargetEntityTypeID, c.TargetBundle))
		}
	}

	for _, m := range c.FieldMapping {
		def, ok := vocab.LookupProperty(c.Object, m.Property)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProperty, m.Property))
			continue
		}
		if m.FieldName == "" || !schemaKnown {
			continue
		}
		field, ok := reg.Field(c.TargetEntityTypeID, c.TargetBundle, m.FieldName)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q (property %s)", ErrUnknownField, m.FieldName, m.Property))
			continue
		}
		if !Compatible(def.Role, field.Type) {
			errs = append(errs, fmt.Errorf("%w: %s (%s) for %s", ErrIncompatibleField, field.Name, field.Type, m.Property))
		}
	}
	return errors.Join(errs...)
}

// Whether a field of the given type can supply a value for a property with the given role.
func Compatible(role vocab.Role, ft FieldType) bool {
	switch role {
	case vocab.RoleDate:
		return ft.IsDate()
	case vocab.RoleTitle, vocab.RoleSummary, vocab.RoleContent:
		return ft.IsPlainText() || ft.IsRichText()
	case vocab.RoleTarget, vocab.RoleReply:
		return ft == FieldReference || ft.IsPlainText()
	case vocab.RoleAttachment:
		return ft.IsAttachment()
	}
	return false
}

// Configuration dependencies of a content type mapping, as module names and config object names.
type Dependencies struct {
	Module []string `json:"module,omitempty" yaml:"module,omitempty"`
	Config []string `json:"config,omitempty" yaml:"config,omitempty"`
}

func (c Config) Dependencies() Dependencies {
	var deps Dependencies
	if c.TargetEntityTypeID != "" {
		deps.Module = []string{c.TargetEntityTypeID}
	}
	if c.TargetEntityTypeID != "" && c.TargetBundle != "" {
		deps.Config = []string{c.TargetEntityTypeID + ".type." + c.TargetBundle}
	}
	return deps
}
