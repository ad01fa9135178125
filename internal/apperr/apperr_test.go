package apperr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/matryer/is"

	"github.com/nikhil/teamtask/internal/apperr"
)

func TestStatusMapping(t *testing.T) {
	is := is.New(t)

	is.Equal(apperr.Status(apperr.Validation("bad input")), http.StatusUnprocessableEntity)
	is.Equal(apperr.Status(apperr.NotFound("gone")), http.StatusNotFound)
	is.Equal(apperr.Status(apperr.Forbidden("no")), http.StatusForbidden)
	is.Equal(apperr.Status(apperr.Conflict("taken")), http.StatusConflict)
	is.Equal(apperr.Status(apperr.Authentication("who are you")), http.StatusUnauthorized)
	is.Equal(apperr.Status(errors.New("disk on fire")), http.StatusInternalServerError)
}

func TestMessageHidesInternalFaults(t *testing.T) {
	is := is.New(t)

	is.Equal(apperr.Message(apperr.NotFound("team not found")), "team not found")
	is.Equal(apperr.Message(errors.New("dial tcp: connection refused")), "internal server error")
}

func TestWrapKeepsCauseAndKind(t *testing.T) {
	is := is.New(t)

	cause := errors.New("token expired")
	err := apperr.Wrap(apperr.KindAuthentication, cause, "invalid token")

	is.Equal(apperr.KindOf(err), apperr.KindAuthentication)
	is.Equal(apperr.Message(err), "invalid token")
	is.True(errors.Is(err, cause))
}

func TestKindOfUnwrapsNesting(t *testing.T) {
	is := is.New(t)

	inner := apperr.Conflict("name taken")
	wrapped := apperr.Wrap(apperr.KindConflict, inner, "could not create team")

	is.True(apperr.IsConflict(wrapped))
	is.True(!apperr.IsNotFound(wrapped))
}
