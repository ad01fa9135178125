package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/nikhil/teamtask/internal/apperr"
	"github.com/nikhil/teamtask/internal/auth"
	"github.com/nikhil/teamtask/internal/store/storetest"
)

func newAuthService() (*auth.Service, *auth.Tokens) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	return auth.NewService(storetest.New().Users(), tokens), tokens
}

func TestSignupAndLogin(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, tokens := newAuthService()

	user, token, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cret")
	is.NoErr(err)
	is.True(user.ID != 0)
	is.True(user.PasswordHash != "s3cret") // stored hashed, never plain

	p, err := tokens.Verify(token)
	is.NoErr(err)
	is.Equal(p.UserID, user.ID)

	loggedIn, loginToken, err := svc.Login(ctx, "alice@example.com", "s3cret")
	is.NoErr(err)
	is.Equal(loggedIn.ID, user.ID)
	p, err = tokens.Verify(loginToken)
	is.NoErr(err)
	is.Equal(p.Email, "alice@example.com")
}

func TestSignupValidation(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newAuthService()

	_, _, err := svc.Signup(ctx, "", "alice@example.com", "s3cret")
	is.Equal(apperr.KindOf(err), apperr.KindValidation)
	_, _, err = svc.Signup(ctx, "alice", "  ", "s3cret")
	is.Equal(apperr.KindOf(err), apperr.KindValidation)
	_, _, err = svc.Signup(ctx, "alice", "alice@example.com", "")
	is.Equal(apperr.KindOf(err), apperr.KindValidation)
}

func TestSignupDuplicateEmail(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newAuthService()

	_, _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cret")
	is.NoErr(err)
	_, _, err = svc.Signup(ctx, "another alice", "alice@example.com", "s3cret")
	is.Equal(apperr.KindOf(err), apperr.KindConflict)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newAuthService()

	_, _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cret")
	is.NoErr(err)

	// Unknown email and wrong password fail identically.
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	is.Equal(apperr.KindOf(err), apperr.KindAuthentication)
	is.Equal(apperr.Message(err), "invalid email or password")

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	is.Equal(apperr.KindOf(err), apperr.KindAuthentication)
	is.Equal(apperr.Message(err), "invalid email or password")
}
