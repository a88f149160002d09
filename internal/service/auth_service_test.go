package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
)

const testJWTSecret = "test-secret"

func TestAuthServiceLoginIssuesTokenAndRecordsLogin(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUserWithPassword(t, "editor", "s3cret-pass")
	svc := NewAuthService(f.repos.Users, f.uow, f.audit, f.validator, testJWTSecret, time.Hour, testLogger())

	resp, err := svc.Login(guestContext("192.0.2.10"), dto.LoginRequest{Username: "editor", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.Equal(t, user.ID, resp.User.ID)
	require.NotNil(t, resp.User.LastLoginAt)

	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, fmt.Sprintf("%d", user.ID), claims["sub"])
	require.Equal(t, string(models.RoleEditor), claims["role"])

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionLogin, entry.Action)
	require.Equal(t, models.ActorUser, entry.ActorType)
	require.Equal(t, user.ID, *entry.UserID)
	require.Equal(t, "editor@example.com", entry.ActorIdentifier)
	require.Equal(t, "192.0.2.10", *entry.IPAddress)
	require.Equal(t, "User logged in: editor", entry.Description)
}

func TestAuthServiceFailedLoginRecordsGuestAttempt(t *testing.T) {
	f := newServiceFixture(t)
	f.createUserWithPassword(t, "editor", "s3cret-pass")
	svc := NewAuthService(f.repos.Users, f.uow, f.audit, f.validator, testJWTSecret, time.Hour, testLogger())

	_, err := svc.Login(guestContext("192.0.2.10"), dto.LoginRequest{Username: "editor", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(guestContext("192.0.2.10"), dto.LoginRequest{Username: "nobody", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	logs := f.activities(t)
	require.Len(t, logs, 2)
	entry := logs[0]
	require.Equal(t, models.ActionLogin, entry.Action)
	require.Equal(t, models.ActorGuest, entry.ActorType)
	require.Equal(t, models.NoComputedEntity, entry.ComputedEntity)
	require.Nil(t, entry.UserID)
	require.Equal(t, "192.0.2.10", entry.ActorIdentifier)
	require.Equal(t, "Anonymous Guest", entry.ActorName)
	require.Equal(t, false, entry.ExtraData["success"])
	require.Equal(t, "editor", entry.ExtraData["username"])
}

func TestAuthServiceFailedLoginWithConsoleTokenStaysGuest(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.createAdmin(t)
	f.createUserWithPassword(t, "editor", "s3cret-pass")
	svc := NewAuthService(f.repos.Users, f.uow, f.audit, f.validator, testJWTSecret, time.Hour, testLogger())

	_, err := svc.Login(adminContext(admin), dto.LoginRequest{Username: "editor", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionLogin, entry.Action)
	require.Equal(t, models.ActorGuest, entry.ActorType)
	require.Nil(t, entry.UserID)
	require.Equal(t, "10.0.0.1", entry.ActorIdentifier)
	require.Equal(t, false, entry.ExtraData["success"])
}

func TestAuthServiceLogout(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUserWithPassword(t, "editor", "s3cret-pass")
	svc := NewAuthService(f.repos.Users, f.uow, f.audit, f.validator, testJWTSecret, time.Hour, testLogger())

	require.NoError(t, svc.Logout(guestContext("192.0.2.10"), user.ID))

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionLogout, entry.Action)
	require.Equal(t, user.ID, *entry.UserID)

	require.ErrorIs(t, svc.Logout(guestContext("192.0.2.10"), 404), ErrUserNotFound)
}
