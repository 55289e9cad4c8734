package auth_test

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storekit/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantContextRoundTrip(t *testing.T) {
	grant := &auth.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-id"},
		UserName:         "Tester",
	}

	ctx := auth.WithGrantContext(context.Background(), grant)

	got, ok := auth.GrantFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-id", got.UserID())
}

func TestGrantFromContextMissing(t *testing.T) {
	_, ok := auth.GrantFromContext(context.Background())
	assert.False(t, ok)
}

func TestUserContextRoundTrip(t *testing.T) {
	user := &auth.User{ID: uuid.New(), Email: "tester@example.com"}

	ctx := auth.WithUserContext(context.Background(), user)

	got, ok := auth.UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}

func TestGrantFromFiber(t *testing.T) {
	app := fiber.New()

	grant := &auth.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "33333333-3333-4333-8333-333333333333",
		},
	}

	app.Get("/probe", func(c *fiber.Ctx) error {
		c.Locals(auth.GrantContextKey, auth.AccessGrant(grant))

		got, err := auth.GrantFromFiber(c)
		require.NoError(t, err)

		id, err := auth.GrantUserUUID(got)
		require.NoError(t, err)
		assert.Equal(t, "33333333-3333-4333-8333-333333333333", id.String())

		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/empty", func(c *fiber.Ctx) error {
		_, err := auth.GrantFromFiber(c)
		assert.ErrorIs(t, err, auth.ErrUnableToFindSession)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, target := range []string{"/probe", "/empty"} {
		resp, err := app.Test(jsonRequest(fiber.MethodGet, target, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
