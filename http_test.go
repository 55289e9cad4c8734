package auth_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/storekit/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	users := new(MockUserStore)
	sessions := new(MockSessionStore)

	cfg := newTestConfig()
	auther := auth.NewAuthenticator(users, sessions, cfg)

	httpAuth, err := auth.NewHTTPAuthenticator(auther, cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/admin",
		httpAuth.RequireAuth(),
		httpAuth.RequireRole(auth.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	issue := func(t *testing.T, role auth.Role) string {
		t.Helper()

		userID := uuid.New()
		session := &auth.SessionToken{
			UserID:       userID,
			RefreshToken: "refresh-" + string(role),
			IsValid:      true,
		}
		sessions.On("GetByUser", mock.Anything, userID).Return(session, nil)

		token, err := auther.TokenService().IssueAccessToken(auth.TokenUser{
			ID:   userID.String(),
			Name: "probe",
			Role: role,
		}, session.RefreshToken, 15*time.Minute)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name   string
		role   auth.Role
		status int
	}{
		{"admin allowed", auth.RoleAdmin, fiber.StatusOK},
		{"user forbidden", auth.RoleUser, fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(fiber.MethodGet, "/admin", "")
			req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: issue(t, tt.role)})

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRenderErrorWrapsPlainErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return auth.RenderError(c, errors.New("driver: connection refused"), nil)
	})

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/boom", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "An unexpected server error occurred", errBody["message"])
}

func TestRenderErrorDeliveryFailure(t *testing.T) {
	app := fiber.New()
	app.Get("/mail", func(c *fiber.Ctx) error {
		return auth.RenderError(c, auth.ErrDeliveryFailed.Clone(), nil)
	})

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/mail", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, auth.TextCodeDeliveryFailed, errBody["text_code"])
}
