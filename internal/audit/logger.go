package audit

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/observability"
)

// MaskedFieldsChangedKey is the extra_data key listing sensitive fields whose
// masked values hide a change.
const MaskedFieldsChangedKey = "masked_fields_changed"

var actionVerbs = map[models.Action]string{
	models.ActionCreate: "Created",
	models.ActionUpdate: "Updated",
	models.ActionDelete: "Deleted",
	models.ActionView:   "Viewed",
}

// ActivityEntry is a fully specified activity for LogActivity.
type ActivityEntry struct {
	Action         models.Action
	Entity         string
	ComputedEntity string
	EntityID       *uint
	EntityName     string
	OldValues      map[string]any
	NewValues      map[string]any
	ChangedFields  []string
	Description    string
	Guest          GuestHints
	ExtraData      map[string]any

	bulk bool
}

// ChangeOptions tunes LogEntityChange.
type ChangeOptions struct {
	// OldInstance is the state captured before the mutation. Required for UPDATE.
	OldInstance      models.Auditable
	ExcludeFields    []string
	IncludeRelations bool
	// Unmasked disables sensitive field masking.
	Unmasked    bool
	ExtraData   map[string]any
	Description string
	Guest       GuestHints
}

// BulkOptions describes a batch summarised by LogBulkOperation.
type BulkOptions struct {
	OperationName string
	SuccessCount  int
	ErrorCount    int
	ExtraData     map[string]any
	Guest         GuestHints
}

// Logger records activity log entries. It runs inline on the caller's
// goroutine and never retries; every failure is returned.
type Logger struct {
	store  Store
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewLogger constructs an audit logger writing to store.
func NewLogger(store Store, logger zerolog.Logger) *Logger {
	return &Logger{
		store:  store,
		logger: logger.With().Str("component", "audit_logger").Logger(),
		tracer: otel.Tracer("github.com/noah-isme/company-site-api/internal/audit"),
	}
}

// WithStore returns a copy of the logger bound to another store, typically
// one scoped to the caller's transaction.
func (l *Logger) WithStore(store Store) *Logger {
	clone := *l
	clone.store = store
	return &clone
}

// LogActivity validates and persists a pre-computed activity.
func (l *Logger) LogActivity(ctx context.Context, entry ActivityEntry) (*models.ActivityLog, error) {
	ctx, span := l.tracer.Start(ctx, "audit.log_activity")
	defer span.End()

	record, err := l.write(ctx, entry)
	finishSpan(span, err)
	return record, err
}

// LogGuestActivity records an activity that has no backing model type, such
// as a brochure download.
func (l *Logger) LogGuestActivity(ctx context.Context, entry ActivityEntry) (*models.ActivityLog, error) {
	entry.ComputedEntity = models.NoComputedEntity
	return l.LogActivity(ctx, entry)
}

// LogEntityChange records a mutation of instance. For UPDATE the field
// diff against opts.OldInstance is stored; an UPDATE that changed nothing
// is recorded as VIEW.
func (l *Logger) LogEntityChange(ctx context.Context, instance models.Auditable, action models.Action, opts ChangeOptions) (*models.ActivityLog, error) {
	ctx, span := l.tracer.Start(ctx, "audit.log_entity_change")
	defer span.End()

	record, err := l.logEntityChange(ctx, instance, action, opts)
	finishSpan(span, err)
	return record, err
}

func (l *Logger) logEntityChange(ctx context.Context, instance models.Auditable, action models.Action, opts ChangeOptions) (*models.ActivityLog, error) {
	if !action.Valid() {
		observability.ActivityLogFailures().WithLabelValues("invalid_action").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if action == models.ActionUpdate && opts.OldInstance == nil {
		observability.ActivityLogFailures().WithLabelValues("missing_old_instance").Inc()
		return nil, ErrMissingOldInstance
	}

	entry := ActivityEntry{
		Action:         action,
		Entity:         instance.EntityName(),
		ComputedEntity: instance.QualifiedType(),
		EntityName:     instance.DisplayString(),
		Description:    opts.Description,
		Guest:          opts.Guest,
		ExtraData:      copyMap(opts.ExtraData),
	}
	if id, ok := instance.AuditID(); ok {
		entry.EntityID = &id
	}
	if entry.Description == "" {
		entry.Description = fmt.Sprintf("%s %s: %s", actionVerb(action), entry.Entity, entry.EntityName)
	}

	snapOpts := SnapshotOptions{
		Exclude:          opts.ExcludeFields,
		IncludeRelations: opts.IncludeRelations,
		Unmasked:         opts.Unmasked,
	}

	switch action {
	case models.ActionCreate:
		snapshot, err := Snapshot(instance, snapOpts)
		if err != nil {
			observability.ActivityLogFailures().WithLabelValues("serialization").Inc()
			return nil, err
		}
		entry.NewValues = snapshot
	case models.ActionUpdate:
		changes, err := Diff(opts.OldInstance, instance, DiffOptions{Exclude: opts.ExcludeFields, Unmasked: opts.Unmasked})
		if err != nil {
			observability.ActivityLogFailures().WithLabelValues("serialization").Inc()
			return nil, err
		}
		if len(changes.MaskedChanged) > 0 {
			if entry.ExtraData == nil {
				entry.ExtraData = map[string]any{}
			}
			entry.ExtraData[MaskedFieldsChangedKey] = changes.MaskedChanged
		}

		oldEntity := opts.OldInstance.EntityName()
		oldDisplay := opts.OldInstance.DisplayString()
		if changes.Empty() {
			entry.Action = models.ActionView
			entry.Description = fmt.Sprintf("No changes detected for %s: %s", oldEntity, oldDisplay)
			break
		}

		entry.OldValues = changes.OldValues
		entry.NewValues = changes.NewValues
		entry.ChangedFields = changes.Fields
		if opts.Description == "" {
			entry.Description = fmt.Sprintf("Updated %s: %s (%d fields changed)", oldEntity, oldDisplay, len(changes.Fields))
		}
	case models.ActionDelete:
		snapshot, err := Snapshot(instance, snapOpts)
		if err != nil {
			observability.ActivityLogFailures().WithLabelValues("serialization").Inc()
			return nil, err
		}
		entry.OldValues = snapshot
	}

	return l.write(ctx, entry)
}

// LogBulkOperation records one summary entry for a homogeneous batch. The
// entity type is taken from the first instance. Computed statistics take
// precedence over caller extra data with the same key.
func (l *Logger) LogBulkOperation(ctx context.Context, action models.Action, instances []models.Auditable, opts BulkOptions) (*models.ActivityLog, error) {
	ctx, span := l.tracer.Start(ctx, "audit.log_bulk_operation")
	defer span.End()

	if len(instances) == 0 {
		observability.ActivityLogFailures().WithLabelValues("empty_batch").Inc()
		finishSpan(span, ErrEmptyBatch)
		return nil, ErrEmptyBatch
	}

	first := instances[0]
	total := opts.SuccessCount + opts.ErrorCount
	successRate := 0.0
	if total > 0 {
		successRate = math.Round(float64(opts.SuccessCount)/float64(total)*100*100) / 100
	}

	ids := make([]uint, 0, len(instances))
	for _, instance := range instances {
		if id, ok := instance.AuditID(); ok {
			ids = append(ids, id)
		}
	}

	computed := map[string]any{
		"bulk_operation":  true,
		"operation_name":  opts.OperationName,
		"total_processed": total,
		"success_count":   opts.SuccessCount,
		"error_count":     opts.ErrorCount,
		"success_rate":    successRate,
		"entity_ids":      ids,
	}

	extra := copyMap(opts.ExtraData)
	if extra == nil {
		extra = make(map[string]any, len(computed))
	}
	var overridden []string
	for key, value := range computed {
		if _, exists := extra[key]; exists {
			overridden = append(overridden, key)
		}
		extra[key] = value
	}
	if len(overridden) > 0 {
		l.logger.Warn().Strs("keys", overridden).Str("operation", opts.OperationName).Msg("caller extra data overridden by bulk statistics")
	}

	entity := first.EntityName()
	entry := ActivityEntry{
		Action:         action,
		Entity:         entity,
		ComputedEntity: first.QualifiedType(),
		EntityName:     fmt.Sprintf("Bulk %s operation", entity),
		Description: fmt.Sprintf("Bulk %s operation: %s (%d successful, %d failed)",
			strings.ToLower(string(action)), opts.OperationName, opts.SuccessCount, opts.ErrorCount),
		Guest:     opts.Guest,
		ExtraData: extra,
		bulk:      true,
	}

	record, err := l.write(ctx, entry)
	finishSpan(span, err)
	return record, err
}

func (l *Logger) write(ctx context.Context, entry ActivityEntry) (*models.ActivityLog, error) {
	if !entry.Action.Valid() {
		observability.ActivityLogFailures().WithLabelValues("invalid_action").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, entry.Action)
	}

	entity := entry.Entity
	if entity == "" {
		entity = models.NoComputedEntity
	}
	computed := entry.ComputedEntity
	if computed == "" {
		computed = models.NoComputedEntity
	}
	if requiresEntityID(entry.Action) && computed != models.NoComputedEntity && entry.EntityID == nil && !entry.bulk {
		observability.ActivityLogFailures().WithLabelValues("missing_entity_id").Inc()
		return nil, fmt.Errorf("%w: %s %s", ErrMissingEntityID, entry.Action, computed)
	}

	trace.SpanFromContext(ctx).SetAttributes(spanAttributes(entry)...)

	req := RequestFromContext(ctx)
	actor := ResolveActor(req, entry.Guest.Merge(GuestHintsFromContext(ctx)))

	record := &models.ActivityLog{
		Action:          entry.Action,
		Entity:          entity,
		ComputedEntity:  computed,
		EntityID:        entry.EntityID,
		OldValues:       jsonMap(entry.OldValues),
		NewValues:       jsonMap(entry.NewValues),
		ChangedFields:   entry.ChangedFields,
		Description:     entry.Description,
		UserAgent:       req.UserAgent,
		ActorType:       actor.Type,
		ActorIdentifier: actor.Identifier,
		ActorName:       actor.Name,
		ActorMetadata:   jsonMap(actor.Metadata),
		ExtraData:       models.NullableJSONMap(copyMap(entry.ExtraData)),
	}
	if record.ExtraData == nil {
		record.ExtraData = models.NullableJSONMap{}
	}
	if entry.EntityName != "" {
		name := entry.EntityName
		record.EntityName = &name
	}
	if req.ClientIP != "" {
		ip := req.ClientIP
		record.IPAddress = &ip
	}
	if actor.User != nil {
		userID := actor.User.ID
		record.UserID = &userID
	}

	if err := l.store.Create(ctx, record); err != nil {
		observability.ActivityLogFailures().WithLabelValues("persistence").Inc()
		l.logger.Error().Err(err).
			Str("action", string(record.Action)).
			Str("entity", record.Entity).
			Msg("failed to persist activity log")
		return nil, &PersistenceError{Action: string(record.Action), Entity: record.Entity, Err: err}
	}

	observability.ActivityLogsWritten().WithLabelValues(string(record.Action), string(record.ActorType)).Inc()
	event := l.logger.Debug().
		Str("action", string(record.Action)).
		Str("entity", record.Entity).
		Str("actor_type", string(record.ActorType))
	if record.EntityID != nil {
		event = event.Uint("entity_id", *record.EntityID)
	}
	event.Msg("activity recorded")

	return record, nil
}

func requiresEntityID(action models.Action) bool {
	switch action {
	case models.ActionCreate, models.ActionUpdate, models.ActionDelete:
		return true
	default:
		return false
	}
}

func actionVerb(action models.Action) string {
	if verb, ok := actionVerbs[action]; ok {
		return verb
	}
	name := strings.ToLower(string(action))
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func copyMap(source map[string]any) map[string]any {
	if source == nil {
		return nil
	}
	copied := make(map[string]any, len(source))
	for key, value := range source {
		copied[key] = value
	}
	return copied
}

func jsonMap(source map[string]any) models.NullableJSONMap {
	if source == nil {
		return nil
	}
	return models.NullableJSONMap(source)
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "recorded")
}

func spanAttributes(entry ActivityEntry) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("audit.action", string(entry.Action)),
		attribute.String("audit.entity", entry.Entity),
	}
}
