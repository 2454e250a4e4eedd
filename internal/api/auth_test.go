package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	a := NewAuthenticator("s3cret")

	token, err := a.Issue("alice", time.Minute)
	require.NoError(t, err)

	who, err := a.Identify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", who)

	expired, err := a.Issue("alice", -time.Minute)
	require.NoError(t, err)

	_, err = a.Identify(expired)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = NewAuthenticator("other").Identify(token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	noSubject, err := a.Issue("", time.Minute)
	require.NoError(t, err)

	_, err = a.Identify(noSubject)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = a.Identify("garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestIdentityFrom(t *testing.T) {
	t.Parallel()

	_, ok := IdentityFrom(t.Context())
	require.False(t, ok)

	who, ok := IdentityFrom(WithIdentity(t.Context(), "bob"))
	require.True(t, ok)
	require.Equal(t, "bob", who)
}
