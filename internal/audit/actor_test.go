package audit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/models"
)

func TestResolveActorAuthenticatedUser(t *testing.T) {
	user := &models.User{ID: 3, Username: "jdoe", Email: "jdoe@example.com", FullName: "Jane Doe", IsActive: true}

	actor := ResolveActor(Request{User: user, ClientIP: "10.0.0.1", SessionKey: "sess"}, GuestHints{Email: "guest@example.com"})

	require.Equal(t, models.ActorUser, actor.Type)
	require.Same(t, user, actor.User)
	require.Equal(t, "jdoe@example.com", actor.Identifier)
	require.Equal(t, "Jane Doe", actor.Name)
	require.Nil(t, actor.Metadata)
}

func TestResolveActorUserFallsBackToUsername(t *testing.T) {
	user := &models.User{ID: 3, Username: "jdoe", IsActive: true}

	actor := ResolveActor(Request{User: user}, GuestHints{})

	require.Equal(t, "jdoe", actor.Identifier)
	require.Equal(t, "jdoe", actor.Name)
}

func TestResolveActorInactiveUserIsGuest(t *testing.T) {
	user := &models.User{ID: 3, Username: "jdoe", IsActive: false}

	actor := ResolveActor(Request{User: user, ClientIP: "1.2.3.4"}, GuestHints{})

	require.Equal(t, models.ActorGuest, actor.Type)
	require.Nil(t, actor.User)
	require.Equal(t, "1.2.3.4", actor.Identifier)
}

func TestResolveActorGuestIdentifierPriority(t *testing.T) {
	req := Request{SessionKey: "sess-1", ClientIP: "1.2.3.4"}

	cases := []struct {
		name     string
		hints    GuestHints
		req      Request
		expected string
	}{
		{name: "email wins", hints: GuestHints{Email: "a@b.com", Phone: "0812"}, req: req, expected: "a@b.com"},
		{name: "phone before session", hints: GuestHints{Phone: "0812"}, req: req, expected: "0812"},
		{name: "session before ip", req: req, expected: "sess-1"},
		{name: "ip last", req: Request{ClientIP: "1.2.3.4"}, expected: "1.2.3.4"},
		{name: "nothing known", expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor := ResolveActor(tc.req, tc.hints)
			require.Equal(t, models.ActorGuest, actor.Type)
			require.Equal(t, tc.expected, actor.Identifier)
		})
	}
}

func TestResolveActorGuestMetadata(t *testing.T) {
	actor := ResolveActor(
		Request{SessionKey: "sess-1", ClientIP: "1.2.3.4", Referrer: "https://google.com"},
		GuestHints{Email: "a@b.com", Name: "Alice", Source: "newsletter", Locale: "id-ID"},
	)

	require.Equal(t, "Alice", actor.Name)
	require.Equal(t, map[string]any{
		"email":      "a@b.com",
		"session_id": "sess-1",
		"source":     "newsletter",
		"referrer":   "https://google.com",
		"locale":     "id-ID",
	}, actor.Metadata)
}

func TestResolveActorGuestWithoutMetadata(t *testing.T) {
	actor := ResolveActor(Request{ClientIP: "1.2.3.4"}, GuestHints{})

	require.Equal(t, AnonymousGuestName, actor.Name)
	require.Nil(t, actor.Metadata)
}

func TestGuestHintsMergeKeepsExplicitValues(t *testing.T) {
	merged := GuestHints{Email: "a@b.com"}.Merge(GuestHints{Email: "ignored@b.com", Locale: "en"})

	require.Equal(t, "a@b.com", merged.Email)
	require.Equal(t, "en", merged.Locale)
}
