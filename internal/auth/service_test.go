package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arekyus/Sistema-comerciantes/internal/shared"
)

func TestAuthenticate(t *testing.T) {
	svc, err := NewService("sistema", "sistema")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Authenticate(ctx, "sistema", "sistema"))
	require.ErrorIs(t, svc.Authenticate(ctx, "sistema", "wrong"), shared.ErrInvalidCredentials)
	require.ErrorIs(t, svc.Authenticate(ctx, "wrong", "sistema"), shared.ErrInvalidCredentials)
	require.ErrorIs(t, svc.Authenticate(ctx, "", ""), shared.ErrInvalidCredentials)
}

func TestUsername(t *testing.T) {
	svc, err := NewService("merchant", "secret")
	require.NoError(t, err)
	require.Equal(t, "merchant", svc.Username())
}
