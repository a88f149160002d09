package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/observability"
	"github.com/noah-isme/company-site-api/internal/repository"
)

var (
	// ErrContactSpam indicates the honeypot field was filled.
	ErrContactSpam = errors.New("contact submission flagged as spam")
	// ErrContactDuplicate indicates a submission with the same checksum exists recently.
	ErrContactDuplicate = errors.New("duplicate contact submission")
)

// ContactService exposes the contact submission workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error)
}

type contactService struct {
	uow       repository.UnitOfWork
	audit     *audit.Logger
	cache     *redis.Client
	validator *validator.Validate
	delivery  ContactDelivery
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	dedupeTTL time.Duration
	tracer    trace.Tracer
}

// ContactOption customises the contact service.
type ContactOption func(*contactService)

// WithDedupeTTL sets how long an identical submission is rejected.
func WithDedupeTTL(ttl time.Duration) ContactOption {
	return func(s *contactService) {
		if ttl > 0 {
			s.dedupeTTL = ttl
		}
	}
}

// NewContactService constructs a contact submission service.
func NewContactService(uow repository.UnitOfWork, auditLogger *audit.Logger, cache *redis.Client, validator *validator.Validate, delivery ContactDelivery, logger zerolog.Logger, opts ...ContactOption) ContactService {
	svc := &contactService{
		uow:       uow,
		audit:     auditLogger,
		cache:     cache,
		validator: validator,
		delivery:  delivery,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "contact_service").Logger(),
		dedupeTTL: 5 * time.Minute,
		tracer:    otel.Tracer("github.com/noah-isme/company-site-api/internal/service/contact"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	if req.Honeypot != "" {
		span.SetStatus(codes.Error, "honeypot tripped")
		observability.ContactSubmissions().WithLabelValues("spam").Inc()
		return dto.ContactResponse{}, ErrContactSpam
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		observability.ContactSubmissions().WithLabelValues("invalid").Inc()
		return dto.ContactResponse{}, err
	}

	checksum := computeChecksum(req.Name, req.Email, req.Subject, req.Message)
	span.SetAttributes(attribute.String("contact.checksum", checksum))

	dedupeKey := fmt.Sprintf("contact:dedupe:%s", checksum)
	if s.cache != nil {
		ok, err := s.cache.SetNX(ctx, dedupeKey, 1, s.dedupeTTL).Result()
		if err != nil {
			span.RecordError(err)
			return dto.ContactResponse{}, err
		}
		if !ok {
			span.SetStatus(codes.Error, "duplicate submission")
			observability.ContactSubmissions().WithLabelValues("duplicate").Inc()
			return dto.ContactResponse{}, ErrContactDuplicate
		}
	}

	message := models.ContactMessage{
		ReferenceID: uuid.New(),
		Name:        s.clean(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       s.clean(req.Phone),
		Subject:     s.clean(req.Subject),
		Message:     s.clean(req.Message),
		Checksum:    checksum,
	}

	hints := audit.GuestHints{
		Email:  message.Email,
		Phone:  message.Phone,
		Name:   message.Name,
		Source: strings.TrimSpace(req.Source),
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.ContactMessages.Create(ctx, &message); err != nil {
			return err
		}
		_, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &message, models.ActionCreate, audit.ChangeOptions{
			Guest:     hints,
			ExtraData: map[string]any{"form": "contact"},
		})
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.ContactSubmissions().WithLabelValues("error").Inc()
		// Nothing was stored, so the visitor may retry the same message.
		if s.cache != nil {
			if delErr := s.cache.Del(context.WithoutCancel(ctx), dedupeKey).Err(); delErr != nil {
				s.logger.Warn().Err(delErr).Msg("failed to release contact dedupe key")
			}
		}
		return dto.ContactResponse{}, err
	}

	referenceID := message.ReferenceID.String()
	if err := s.delivery.Deliver(ctx, message); err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Str("reference_id", referenceID).Msg("contact delivery failed")
		observability.ContactSubmissions().WithLabelValues("queued").Inc()
		return dto.ContactResponse{ReferenceID: referenceID, Status: "queued"}, nil
	}

	observability.ContactSubmissions().WithLabelValues("sent").Inc()
	s.logger.Info().Str("reference_id", referenceID).Str("email", maskEmailAddress(message.Email)).Msg("contact submission processed")
	span.SetStatus(codes.Ok, "delivered")

	return dto.ContactResponse{ReferenceID: referenceID, Status: "sent"}, nil
}

func (s *contactService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func computeChecksum(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(strings.TrimSpace(strings.ToLower(part))))
		hasher.Write([]byte("|"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
