package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// SessionCookie is the cookie carrying an anonymous visitor session key.
const SessionCookie = "site_session"

// UserLookup loads the account behind an authenticated request.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
}

// AuditContext binds the request provenance used for activity attribution
// to the user context. It must run after the JWT middleware so the user id
// local is available.
func AuditContext(users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		req := audit.Request{
			SessionKey: sessionKey(c),
			ClientIP:   clientIP(c),
			UserAgent:  c.Get(fiber.HeaderUserAgent),
			Referrer:   c.Get(fiber.HeaderReferer),
		}
		if id, ok := c.Locals("user_id").(uint); ok && id != 0 && users != nil {
			if user, err := users.GetByID(ctx, id); err == nil {
				req.User = &user
			}
		}

		ctx = audit.WithRequest(ctx, req)
		ctx = audit.WithGuestHints(ctx, guestHints(c))
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequireActiveUser rejects console requests whose token no longer maps to
// an active account. It must run after AuditContext.
func RequireActiveUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !audit.RequestFromContext(c.UserContext()).User.IsAuthenticated() {
			return utils.SendError(c, fiber.StatusUnauthorized, "account is inactive or no longer exists")
		}
		return c.Next()
	}
}

func sessionKey(c *fiber.Ctx) string {
	if key := strings.TrimSpace(c.Cookies(SessionCookie)); key != "" {
		return key
	}
	return strings.TrimSpace(c.Get("X-Session-Key"))
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	return c.Context().RemoteIP().String()
}

func guestHints(c *fiber.Ctx) audit.GuestHints {
	hints := audit.GuestHints{
		Source:   strings.TrimSpace(c.Query("utm_source")),
		Campaign: strings.TrimSpace(c.Query("utm_campaign")),
		Platform: strings.Trim(strings.TrimSpace(c.Get("Sec-CH-UA-Platform")), `"`),
		Locale:   primaryLocale(c.Get(fiber.HeaderAcceptLanguage)),
	}
	switch strings.TrimSpace(c.Get("Sec-CH-UA-Mobile")) {
	case "?1":
		hints.Device = "mobile"
	case "?0":
		hints.Device = "desktop"
	}
	return hints
}

func primaryLocale(header string) string {
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	if idx := strings.Index(first, ";"); idx >= 0 {
		first = first[:idx]
	}
	if first == "*" {
		return ""
	}
	return first
}
