package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
)

// NullableJSONMap is a JSON object column that stores SQL NULL when the map
// is nil. datatypes.JSONMap writes the literal 'null' instead, which hides
// rows from IS NULL filters.
type NullableJSONMap datatypes.JSONMap

// Value implements driver.Valuer.
func (m NullableJSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return datatypes.JSONMap(m).Value()
}

// Scan implements sql.Scanner. NULL and a stored 'null' both read back as nil.
func (m *NullableJSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var decoded datatypes.JSONMap
	if err := decoded.Scan(value); err != nil {
		return err
	}
	*m = NullableJSONMap(decoded)
	return nil
}

// MarshalJSON renders a nil map as null.
func (m NullableJSONMap) MarshalJSON() ([]byte, error) {
	return datatypes.JSONMap(m).MarshalJSON()
}

// UnmarshalJSON keeps null as a nil map.
func (m *NullableJSONMap) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = nil
		return nil
	}
	var decoded datatypes.JSONMap
	if err := decoded.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NullableJSONMap(decoded)
	return nil
}
