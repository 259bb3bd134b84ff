// Package models contains database model definitions.
package models

import (
	"time"
)

// Datatype names a setting value's logical type. The datatype of a key is
// fixed when the setting is created; later updates coerce against it.
type Datatype string

const (
	// DatatypeInt stores integer values.
	DatatypeInt Datatype = "int"
	// DatatypeFloat stores floating-point values.
	DatatypeFloat Datatype = "float"
	// DatatypeBoolean stores boolean values.
	DatatypeBoolean Datatype = "boolean"
	// DatatypeString is the default and stores plain strings.
	DatatypeString Datatype = "string"
)

// Setting represents a typed configuration setting stored in the database.
// Value always holds the string form of a value coercible to Datatype.
type Setting struct {
	Meta
	ID          uint64   `gorm:"primaryKey"`
	Key         string   `gorm:"size:100;not null;uniqueIndex"`
	Datatype    Datatype `gorm:"size:100;not null"`
	Value       string   `gorm:"size:255;not null"`
	Description string   `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
