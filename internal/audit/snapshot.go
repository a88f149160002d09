package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/noah-isme/company-site-api/internal/models"
)

// MaskSentinel replaces the value of sensitive fields in snapshots.
const MaskSentinel = "***MASKED***"

const dateLayout = "2006-01-02"

var sensitiveFragments = []string{"password", "token", "secret", "key"}

// IsSensitiveField reports whether the field name contains one of the
// sensitive fragments, case-insensitively.
func IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, fragment := range sensitiveFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// SnapshotOptions controls how an entity is rendered.
type SnapshotOptions struct {
	Exclude          []string
	IncludeRelations bool
	// Unmasked disables sensitive field masking.
	Unmasked bool
}

type snapshotEntry struct {
	name   string
	value  any
	raw    any
	masked bool
}

// Snapshot renders the persisted fields of instance in declaration order.
func Snapshot(instance models.Auditable, opts SnapshotOptions) (map[string]any, error) {
	entries, err := snapshotEntries(instance, opts)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]any, len(entries))
	for _, entry := range entries {
		snapshot[entry.name] = entry.value
	}
	return snapshot, nil
}

func snapshotEntries(instance models.Auditable, opts SnapshotOptions) ([]snapshotEntry, error) {
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = struct{}{}
	}

	fields := instance.AuditFields()
	entries := make([]snapshotEntry, 0, len(fields))
	for _, field := range fields {
		if _, skip := excluded[field.Name]; skip {
			continue
		}

		value, err := normalizeField(field, opts.IncludeRelations)
		if err != nil {
			return nil, &SerializationError{Entity: instance.EntityName(), Field: field.Name, Err: err}
		}

		entry := snapshotEntry{name: field.Name, value: value, raw: value}
		if !opts.Unmasked && IsSensitiveField(field.Name) {
			entry.value = MaskSentinel
			entry.masked = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func normalizeField(field models.Field, includeRelations bool) (any, error) {
	value, isNil, err := deref(field.Value)
	if err != nil {
		return nil, err
	}
	if isNil {
		return nil, nil
	}

	switch field.Kind {
	case models.KindString, models.KindFile:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case models.KindInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case models.KindUint:
		switch v := value.(type) {
		case uint:
			return uint64(v), nil
		case uint8:
			return uint64(v), nil
		case uint16:
			return uint64(v), nil
		case uint32:
			return uint64(v), nil
		case uint64:
			return v, nil
		}
	case models.KindFloat:
		switch v := value.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		}
	case models.KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case models.KindDecimal:
		switch v := value.(type) {
		case decimal.Decimal:
			return v.String(), nil
		case string:
			return v, nil
		}
	case models.KindTime, models.KindDate:
		if t, ok := value.(time.Time); ok {
			if t.IsZero() {
				return nil, nil
			}
			if field.Kind == models.KindDate {
				return t.Format(dateLayout), nil
			}
			return t.UTC().Format(time.RFC3339Nano), nil
		}
	case models.KindUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v.String(), nil
		case string:
			return v, nil
		}
	case models.KindJSON:
		return normalizeJSON(value)
	case models.KindRelation:
		if ref, ok := value.(models.RelationRef); ok {
			if includeRelations {
				return map[string]any{"id": uint64(ref.ID), "display": ref.Display}, nil
			}
			return uint64(ref.ID), nil
		}
	default:
		return nil, fmt.Errorf("unknown field kind %d", field.Kind)
	}

	return nil, fmt.Errorf("unsupported %s value of type %T", field.Kind, value)
}

// deref unwraps the pointer types used by entity fields.
func deref(value any) (any, bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, true, nil
	case *string:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *int:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *int64:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *uint:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *float64:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *bool:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *time.Time:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *decimal.Decimal:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *uuid.UUID:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	case *models.RelationRef:
		if v == nil {
			return nil, true, nil
		}
		return *v, false, nil
	default:
		return value, false, nil
	}
}

func normalizeJSON(value any) (any, error) {
	var payload []byte
	switch v := value.(type) {
	case datatypes.JSON:
		payload = v
	case json.RawMessage:
		payload = v
	case []byte:
		payload = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		payload = encoded
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}
