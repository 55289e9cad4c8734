package auth

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// Cookie names the browser client relies on.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// RouteAuthenticator wires the session manager into fiber: it owns the cookie
// contract and the guard middleware.
type RouteAuthenticator struct {
	auth         *Auther
	cfg          Config
	Logger       Logger
	ErrorHandler fiber.Handler
}

func NewHTTPAuthenticator(auther *Auther, cfg Config) (*RouteAuthenticator, error) {
	if auther == nil {
		return nil, errors.New("http authenticator requires an Auther", errors.CategoryInternal)
	}

	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	return a, nil
}

// SetCookies writes the token pair issued by a login. Both cookies are
// HttpOnly and SameSite=Strict so scripts never see the raw tokens.
func (a *RouteAuthenticator) SetCookies(c *fiber.Ctx, result *LoginResult) {
	a.setCookie(c, AccessTokenCookie, result.AccessToken, result.AccessExpires)
	a.setCookie(c, RefreshTokenCookie, result.RefreshToken, result.RefreshExpires)
}

// ClearCookies overwrites both auth cookies with an expiry far in the past,
// which is how browsers are told to drop them.
func (a *RouteAuthenticator) ClearCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour * (24 * 365))
	a.setCookie(c, AccessTokenCookie, "", expired)
	a.setCookie(c, RefreshTokenCookie, "", expired)
}

func (a *RouteAuthenticator) setCookie(c *fiber.Ctx, name, val string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    val,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   a.cfg.GetSecureCookies(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// RequireAuth guards a route group. It reads the access token cookie,
// verifies it against the backing session, and stores the grant in Locals for
// downstream handlers.
func (a *RouteAuthenticator) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(AccessTokenCookie)
		if raw == "" {
			return a.handleError(c, ErrUnableToFindSession)
		}

		grant, err := a.auth.Authenticate(c.Context(), raw)
		if err != nil {
			return a.handleError(c, err)
		}

		c.Locals(GrantContextKey, grant)

		return c.Next()
	}
}

// RequireRole builds on RequireAuth and rejects grants whose role is not in
// the allowed set. Mount it after RequireAuth.
func (a *RouteAuthenticator) RequireRole(roles ...Role) fiber.Handler {
	allowed := map[Role]bool{}
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		grant, err := GrantFromFiber(c)
		if err != nil {
			return a.handleError(c, err)
		}

		if !allowed[grant.Role()] {
			return a.handleError(c, ErrNotPermitted.Clone())
		}

		return c.Next()
	}
}

func (a *RouteAuthenticator) handleError(c *fiber.Ctx, err error) error {
	if a.ErrorHandler != nil {
		c.Locals("auth_error", err)
		return a.ErrorHandler(c)
	}
	return RenderError(c, err, a.Logger)
}

// RenderError maps structured errors to a stable JSON body. The message and
// text code come straight from the error so clients can switch on them.
func RenderError(c *fiber.Ctx, err error, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	logger.Info(
		"request error: %s text_code=%s category=%s details=%s",
		richErr.Message,
		richErr.TextCode,
		richErr.Category,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	status := richErr.Code
	if status == 0 {
		switch richErr.Category {
		case errors.CategoryOperation:
			status = http.StatusBadGateway
		case errors.CategoryValidation, errors.CategoryBadInput:
			status = http.StatusBadRequest
		default:
			status = http.StatusInternalServerError
		}
	}

	body := fiber.Map{
		"message": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}

	return c.Status(status).JSON(fiber.Map{"error": body})
}
