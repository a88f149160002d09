package audit

import (
	"bytes"
	"encoding/json"

	"github.com/noah-isme/company-site-api/internal/models"
)

// DiffOptions controls change detection.
type DiffOptions struct {
	Exclude  []string
	Unmasked bool
}

// Changes is the field-level difference between two snapshots of an entity.
// OldValues and NewValues only carry the changed fields.
type Changes struct {
	OldValues map[string]any
	NewValues map[string]any
	Fields    []string
	// MaskedChanged lists sensitive fields whose masked values are equal but
	// whose underlying values differ.
	MaskedChanged []string
}

// Empty reports whether no visible field changed.
func (c Changes) Empty() bool {
	return len(c.Fields) == 0
}

// Diff compares two states of the same entity. Relations are compared by
// primary key. Both instances must describe the same record; this is not checked.
func Diff(oldInstance, newInstance models.Auditable, opts DiffOptions) (Changes, error) {
	snapOpts := SnapshotOptions{Exclude: opts.Exclude, Unmasked: opts.Unmasked}

	oldEntries, err := snapshotEntries(oldInstance, snapOpts)
	if err != nil {
		return Changes{}, err
	}
	newEntries, err := snapshotEntries(newInstance, snapOpts)
	if err != nil {
		return Changes{}, err
	}

	previous := make(map[string]snapshotEntry, len(oldEntries))
	for _, entry := range oldEntries {
		previous[entry.name] = entry
	}

	changes := Changes{
		OldValues: map[string]any{},
		NewValues: map[string]any{},
	}
	for _, current := range newEntries {
		before, ok := previous[current.name]
		if !ok {
			continue
		}

		equal, err := valuesEqual(before.value, current.value)
		if err != nil {
			return Changes{}, &SerializationError{Entity: newInstance.EntityName(), Field: current.name, Err: err}
		}
		if !equal {
			changes.Fields = append(changes.Fields, current.name)
			changes.OldValues[current.name] = before.value
			changes.NewValues[current.name] = current.value
			continue
		}

		if current.masked && before.masked {
			rawEqual, err := valuesEqual(before.raw, current.raw)
			if err != nil {
				return Changes{}, &SerializationError{Entity: newInstance.EntityName(), Field: current.name, Err: err}
			}
			if !rawEqual {
				changes.MaskedChanged = append(changes.MaskedChanged, current.name)
			}
		}
	}

	return changes, nil
}

func valuesEqual(a, b any) (bool, error) {
	left, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(left, right), nil
}
