package audit

import "github.com/noah-isme/company-site-api/internal/models"

// AnonymousGuestName is the actor name used when a guest gives no name.
const AnonymousGuestName = "Anonymous Guest"

// ActorInfo is the normalized identity attributed to a recorded action.
type ActorInfo struct {
	Type       models.ActorType
	User       *models.User
	Identifier string
	Name       string
	Metadata   map[string]any
}

// ResolveActor derives the actor from the request. An authenticated user
// always wins over guest hints.
func ResolveActor(req Request, hints GuestHints) ActorInfo {
	if req.User.IsAuthenticated() {
		return ActorInfo{
			Type:       models.ActorUser,
			User:       req.User,
			Identifier: req.User.Identifier(),
			Name:       req.User.DisplayName(),
		}
	}

	name := hints.Name
	if name == "" {
		name = AnonymousGuestName
	}

	return ActorInfo{
		Type:       models.ActorGuest,
		Identifier: firstNonEmpty(hints.Email, hints.Phone, req.SessionKey, req.ClientIP),
		Name:       name,
		Metadata:   guestMetadata(req, hints),
	}
}

func guestMetadata(req Request, hints GuestHints) map[string]any {
	candidates := []struct {
		key   string
		value string
	}{
		{"email", hints.Email},
		{"phone", hints.Phone},
		{"session_id", req.SessionKey},
		{"device", hints.Device},
		{"browser", hints.Browser},
		{"platform", hints.Platform},
		{"source", hints.Source},
		{"campaign", hints.Campaign},
		{"referrer", req.Referrer},
		{"locale", hints.Locale},
	}

	metadata := make(map[string]any)
	for _, candidate := range candidates {
		if candidate.value != "" {
			metadata[candidate.key] = candidate.value
		}
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
