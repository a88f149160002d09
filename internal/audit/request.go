package audit

import (
	"context"

	"github.com/noah-isme/company-site-api/internal/models"
)

// Request is the request provenance consumed by the audit logger. HTTP
// middleware builds it once per request and binds it to the context.
type Request struct {
	User       *models.User
	SessionKey string
	ClientIP   string
	UserAgent  string
	Referrer   string
}

// GuestHints carries optional identity and attribution details supplied by
// an anonymous visitor.
type GuestHints struct {
	Email    string
	Phone    string
	Name     string
	Device   string
	Browser  string
	Platform string
	Source   string
	Campaign string
	Locale   string
}

// Merge returns h with empty values filled from other.
func (h GuestHints) Merge(other GuestHints) GuestHints {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&h.Email, other.Email)
	fill(&h.Phone, other.Phone)
	fill(&h.Name, other.Name)
	fill(&h.Device, other.Device)
	fill(&h.Browser, other.Browser)
	fill(&h.Platform, other.Platform)
	fill(&h.Source, other.Source)
	fill(&h.Campaign, other.Campaign)
	fill(&h.Locale, other.Locale)
	return h
}

type requestKey struct{}
type hintsKey struct{}

// WithRequest binds the request provenance to ctx.
func WithRequest(ctx context.Context, req Request) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFromContext returns the bound request, or a zero Request.
func RequestFromContext(ctx context.Context) Request {
	if ctx == nil {
		return Request{}
	}
	if req, ok := ctx.Value(requestKey{}).(Request); ok {
		return req
	}
	return Request{}
}

// WithGuestHints binds request-derived guest hints (locale, campaign) to ctx.
func WithGuestHints(ctx context.Context, hints GuestHints) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, hintsKey{}, hints)
}

// GuestHintsFromContext returns the bound hints, or zero hints.
func GuestHintsFromContext(ctx context.Context) GuestHints {
	if ctx == nil {
		return GuestHints{}
	}
	if hints, ok := ctx.Value(hintsKey{}).(GuestHints); ok {
		return hints
	}
	return GuestHints{}
}
