package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// Meta carries persistence-tracking state for an entity. The store marks an
// entity persisted after a successful save or load. Snapshots must exclude
// this state without disturbing it, because the entity stays live after
// being serialized.
type Meta struct {
	persisted bool
}

// MarkPersisted records that the entity exists in the database.
func (m *Meta) MarkPersisted() {
	m.persisted = true
}

// Persisted reports whether the entity exists in the database.
func (m *Meta) Persisted() bool {
	return m.persisted
}

// Tracked is implemented by entities embedding Meta.
type Tracked interface {
	MarkPersisted()
	Persisted() bool
}

var metaType = reflect.TypeOf(Meta{}) //nolint:gochecknoglobals

// Snapshot produces a plain-value view of an entity's exported fields, keyed
// by the snake_case field name. Timestamps become their string form,
// float32 becomes float64, named string types (including encrypted columns)
// become plain strings, and persistence-tracking metadata is excluded.
// The entity itself is left untouched.
func Snapshot(entity any) map[string]any {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	out := make(map[string]any)
	if v.Kind() != reflect.Struct {
		return out
	}

	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// skip the tracking metadata
		if field.Anonymous && field.Type == metaType {
			continue
		}

		out[snakeCase(field.Name)] = plainValue(v.Field(i))
	}

	return out
}

// ToJSON serializes an entity snapshot to its JSON text form.
func ToJSON(entity any) (string, error) {
	raw, err := json.Marshal(Snapshot(entity))
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func plainValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	switch value := v.Interface().(type) {
	case time.Time:
		return value.Format(time.DateTime)
	case float32:
		return float64(value)
	default:
		// collapse named string types (datatype enums, encrypted columns)
		if v.Kind() == reflect.String {
			return v.String()
		}

		return value
	}
}

// snakeCase converts an exported Go field name to its column-style form,
// keeping acronym runs together ("EmailAddress" -> "email_address",
// "ID" -> "id", "ExternalID" -> "external_id").
func snakeCase(name string) string {
	var b strings.Builder

	runes := []rune(name)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
