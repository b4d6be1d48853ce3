package document

import (
	"time"

	"github.com/google/uuid"
)

// The hooks below are invoked by the surrounding lifecycle (create/save)
// collaborator. Each is idempotent: a field that already carries a value is
// never overwritten.

// SetCreatedAt stamps the creation timestamp when timestamps are enabled
// for the model and the field is still unset.
func (d *Document) SetCreatedAt() error {
	if !d.registry.TimestampsEnabled() || d.isSet(createdAtField) {
		return nil
	}
	return d.WriteAttribute(createdAtField, d.now())
}

// SetUpdatedAt stamps the update timestamp unless timestamps are disabled,
// the field was already marked changed in the current operation (an
// explicit value set earlier in the same save), or the instance's
// skip-touch flag is active.
func (d *Document) SetUpdatedAt() error {
	if !d.registry.TimestampsEnabled() || d.skipTouch || d.tracker.AttributeChanged(updatedAtField) {
		return nil
	}
	return d.WriteAttribute(updatedAtField, d.now())
}

// SetExpiresField populates the configured expiration field with an
// epoch-seconds deadline of now + the configured duration, when expiration
// is configured and the field is still blank.
func (d *Document) SetExpiresField() error {
	exp := d.registry.Settings().Expires
	if exp == nil || exp.Field == "" || !d.isBlank(exp.Field) {
		return nil
	}
	return d.WriteAttribute(exp.Field, d.now().Unix()+exp.After)
}

// SetInheritanceField tags the instance with its concrete class name when
// the schema declares the configured discriminator field and the instance
// has not set it.
func (d *Document) SetInheritanceField() error {
	field := d.registry.Settings().InheritanceField
	if field == "" {
		return nil
	}
	if _, declared := d.registry.Descriptor(field); !declared {
		return nil
	}
	if d.isSet(field) {
		return nil
	}
	return d.WriteAttribute(field, d.class)
}

// SetDefaultID assigns a fresh UUID to the primary-key field when it is
// still unset.
func (d *Document) SetDefaultID() error {
	key := d.registry.HashKey()
	if d.isSet(key) {
		return nil
	}
	return d.WriteAttribute(key, uuid.NewString())
}

const (
	createdAtField = "created_at"
	updatedAtField = "updated_at"
)

func (d *Document) now() time.Time {
	zone := d.caster.Zone
	if zone == nil {
		zone = time.UTC
	}
	return d.clock().In(zone)
}

// isSet reports whether the field holds a non-nil casted value.
func (d *Document) isSet(name string) bool {
	v, ok := d.ReadAttribute(name)
	return ok && v != nil
}

// isBlank treats absent, nil, and empty strings as blank.
func (d *Document) isBlank(name string) bool {
	v, ok := d.ReadAttribute(name)
	if !ok || v == nil {
		return true
	}
	s, isString := v.(string)
	return isString && s == ""
}
