package models

// FieldKind classifies how an entity field is rendered into an audit snapshot.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindDecimal
	KindTime
	KindDate
	KindJSON
	KindFile
	KindUUID
	KindRelation
)

var fieldKindNames = map[FieldKind]string{
	KindString:   "string",
	KindInt:      "int",
	KindUint:     "uint",
	KindFloat:    "float",
	KindBool:     "bool",
	KindDecimal:  "decimal",
	KindTime:     "time",
	KindDate:     "date",
	KindJSON:     "json",
	KindFile:     "file",
	KindUUID:     "uuid",
	KindRelation: "relation",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// RelationRef is the shallow representation of a foreign-key field.
type RelationRef struct {
	ID      uint
	Display string
}

// Field is one persisted field of an entity, bound to a concrete value.
type Field struct {
	Name  string
	Kind  FieldKind
	Value any
}

// Auditable is implemented by every entity whose mutations are recorded in
// the activity log.
type Auditable interface {
	// AuditID returns the primary key, or false when the entity is not persisted yet.
	AuditID() (uint, bool)
	// EntityName is the short logical name, e.g. "product".
	EntityName() string
	// QualifiedType is the fully-qualified type path, e.g. "models.Product".
	QualifiedType() string
	// DisplayString is the human-readable label stored as entity_name.
	DisplayString() string
	// AuditFields lists the persisted fields in declaration order.
	AuditFields() []Field
}

// FieldSpec declares a single field of T: its name, kind and accessor.
type FieldSpec[T any] struct {
	Name string
	Kind FieldKind
	Get  func(T) any
}

// Schema is the field descriptor of one entity type. It is built once, at
// package initialisation, and shared by every instance of the type.
type Schema[T any] struct {
	entity    string
	qualified string
	specs     []FieldSpec[T]
}

// NewSchema declares the audited fields of an entity type.
func NewSchema[T any](entity, qualified string, specs ...FieldSpec[T]) *Schema[T] {
	copied := make([]FieldSpec[T], len(specs))
	copy(copied, specs)
	return &Schema[T]{entity: entity, qualified: qualified, specs: copied}
}

// Entity returns the short logical name.
func (s *Schema[T]) Entity() string { return s.entity }

// Qualified returns the fully-qualified type path.
func (s *Schema[T]) Qualified() string { return s.qualified }

// Names returns the declared field names in order.
func (s *Schema[T]) Names() []string {
	names := make([]string, 0, len(s.specs))
	for _, spec := range s.specs {
		names = append(names, spec.Name)
	}
	return names
}

// Fields binds the schema to an instance.
func (s *Schema[T]) Fields(instance T) []Field {
	fields := make([]Field, 0, len(s.specs))
	for _, spec := range s.specs {
		fields = append(fields, Field{Name: spec.Name, Kind: spec.Kind, Value: spec.Get(instance)})
	}
	return fields
}

func optionalID(id uint) (uint, bool) {
	return id, id != 0
}
