// Package setting implements the typed key/value settings store. Every
// setting declares a datatype at creation time; values are coerced against
// that datatype on write and on read, and stored in their string form.
package setting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
)

const (
	keyQueryPattern = "key = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to create/update a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDatatypeRequired is returned when Set is called for a key that does
	// not exist yet: a datatype must be supplied to create a new setting.
	ErrDatatypeRequired = errors.New("datatype must be set when creating a new setting")
	// ErrCannotCast is returned when a value cannot be coerced to the declared datatype.
	ErrCannotCast = errors.New("cannot cast value")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// trueTokens and falseTokens are the accepted boolean spellings, matched
// after trimming and lowercasing.
var (
	trueTokens  = []string{"1", "true", "yes", "on"}  //nolint:gochecknoglobals
	falseTokens = []string{"0", "false", "no", "off"} //nolint:gochecknoglobals
)

// CastValue coerces a value to the given datatype. Unknown datatypes fall
// back to plain string conversion.
func CastValue(value any, datatype models.Datatype) (any, error) {
	switch datatype {
	case models.DatatypeInt:
		return castInt(value)
	case models.DatatypeFloat:
		return castFloat(value)
	case models.DatatypeBoolean:
		return castBool(value)
	default:
		return fmt.Sprint(value), nil
	}
}

func castInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q to int", ErrCannotCast, v)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("%w %v to int", ErrCannotCast, value)
	}
}

func castFloat(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q to float", ErrCannotCast, v)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("%w %v to float", ErrCannotCast, value)
	}
}

func castBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	default:
		token := strings.ToLower(strings.TrimSpace(fmt.Sprint(value)))

		for _, t := range trueTokens {
			if token == t {
				return true, nil
			}
		}

		for _, t := range falseTokens {
			if token == t {
				return false, nil
			}
		}

		return false, fmt.Errorf("%w %v to boolean", ErrCannotCast, value)
	}
}

// Get retrieves a setting record by its key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting

	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	setting.MarkPersisted()

	return &setting, nil
}

// GetAll retrieves all settings ordered by key.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting

	result := db.Order("key").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetValue looks up a setting and returns its value coerced to the declared
// datatype. A missing key returns the caller-supplied default. A stored
// value that no longer coerces to its datatype also degrades to the default
// rather than failing the caller: corrupt settings data must never take a
// request down. Only genuine database faults are reported.
func GetValue(db *gorm.DB, key string, defaultValue any) (any, error) {
	stored, err := Get(db, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) || errors.Is(err, ErrSettingKeyEmpty) {
			return defaultValue, nil
		}

		return defaultValue, err
	}

	casted, err := CastValue(stored.Value, stored.Datatype)
	if err != nil {
		return defaultValue, nil
	}

	return casted, nil
}

// Set updates the value of an existing setting, coercing against the stored
// datatype: the datatype of a key is immutable through this path. A
// non-empty description replaces the stored one. A missing key is a
// configuration error; Set alone cannot create a setting.
func Set(db *gorm.DB, key string, value any, description string) (*models.Setting, error) {
	stored, err := Get(db, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return nil, ErrDatatypeRequired
		}

		return nil, err
	}

	casted, err := CastValue(value, stored.Datatype)
	if err != nil {
		return nil, err
	}

	stored.Value = fmt.Sprint(casted)
	if description != "" {
		stored.Description = description
	}

	if err := db.Save(stored).Error; err != nil {
		return nil, err
	}

	return stored, nil
}

// Create creates a new setting, coercing the value against the supplied
// datatype before anything is written.
func Create(db *gorm.DB, key string, value any, datatype models.Datatype, description string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	casted, err := CastValue(value, datatype)
	if err != nil {
		return nil, err
	}

	var existing models.Setting

	result := db.Where(keyQueryPattern, key).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	created := &models.Setting{
		Key:         key,
		Datatype:    datatype,
		Value:       fmt.Sprint(casted),
		Description: description,
	}

	if err := db.Create(created).Error; err != nil {
		return nil, err
	}

	created.MarkPersisted()

	return created, nil
}

// Delete deletes a setting by key.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}

	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Where(keyQueryPattern, key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
