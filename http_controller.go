package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// RegisterAuthRoutes mounts the auth endpoints on the given router.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		Name("register.post")

	app.Post(controller.Routes.VerifyEmail, controller.VerifyEmail).
		Name("verify-email.post")

	app.Post(controller.Routes.Login, controller.LoginPost).
		Name("sign-in.post")

	app.Get(controller.Routes.Logout,
		controller.HTTP.RequireAuth(),
		controller.LogOut,
	).Name("sign-out.get")

	app.Get(controller.Routes.CurrentUser,
		controller.HTTP.RequireAuth(),
		controller.ShowCurrentUser,
	).Name("current-user.get")

	app.Post(controller.Routes.UpdatePassword,
		controller.HTTP.RequireAuth(),
		controller.UpdatePassword,
	).Name("update-password.post")

	app.Post(controller.Routes.RevokeSession,
		controller.HTTP.RequireAuth(),
		controller.HTTP.RequireRole(RoleAdmin),
		controller.RevokeSession,
	).Name("revoke-session.post")
}

type AuthControllerRoutes struct {
	Register       string
	VerifyEmail    string
	Login          string
	Logout         string
	CurrentUser    string
	UpdatePassword string
	RevokeSession  string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Auther *Auther
	HTTP   *RouteAuthenticator
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:       "/auth/register",
			VerifyEmail:    "/auth/verify-email",
			Login:          "/auth/login",
			Logout:         "/auth/logout",
			CurrentUser:    "/auth/me",
			UpdatePassword: "/auth/update-password",
			RevokeSession:  "/auth/revoke-session",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	if c.HTTP == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	return c
}

// WithControllerAuther sets the session manager the controller drives.
func WithControllerAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithControllerHTTP sets the cookie/middleware helper.
func WithControllerHTTP(http *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.HTTP = http
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

// WithControllerDebug toggles verbose payload dumps.
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegistrationCreatePayload is the register body
type RegistrationCreatePayload struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) RegistrationCreate(ctx *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload: %s", err)
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest), a.Logger)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{
			"name":  payload.Name,
			"email": payload.Email,
		}))
		fmt.Println("============================")
	}

	// a delivery failure still comes back as an error here, the account
	// itself is already persisted
	user, err := a.Auther.Register(ctx.Context(), payload.Email, payload.Name, payload.Password)
	if err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Success! Please check your email to verify account",
		"user":    user,
	})
}

// VerifyEmailPayload carries the address and the single-use token mailed to it
type VerifyEmailPayload struct {
	Email string `json:"email" form:"email"`
	Token string `json:"verification_token" form:"verification_token"`
}

// Validate will validate the payload
func (r VerifyEmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Token, validation.Required),
	)
}

func (a *AuthController) VerifyEmail(ctx *fiber.Ctx) error {
	payload := new(VerifyEmailPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("verify email parse payload: %s", err)
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("verify email validate payload: %s", err)
		return RenderError(ctx, ErrVerificationFailed.Clone(), a.Logger)
	}

	if err := a.Auther.VerifyEmail(ctx.Context(), payload.Email, payload.Token); err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	return ctx.JSON(fiber.Map{
		"message": "Email Verified",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Email
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	if payload.Email == "" || payload.Password == "" {
		return RenderError(ctx, ErrMissingCredentials.Clone(), a.Logger)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: %s", err)
		return RenderError(ctx, ErrMissingCredentials.Clone(), a.Logger)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{
			"email": payload.Email,
		}))
		fmt.Println("=========================")
	}

	client := ClientInfo{
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	}

	result, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password, client)
	if err != nil {
		a.Logger.Error("login error: %s", err)
		return RenderError(ctx, err, a.Logger)
	}

	a.HTTP.SetCookies(ctx, result)

	return ctx.JSON(fiber.Map{
		"user": result.User,
	})
}

func (a *AuthController) LogOut(ctx *fiber.Ctx) error {
	grant, err := GrantFromFiber(ctx)
	if err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	userID, err := GrantUserUUID(grant)
	if err != nil {
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	if err := a.Auther.Logout(ctx.Context(), userID); err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	a.HTTP.ClearCookies(ctx)

	return ctx.JSON(fiber.Map{
		"message": "user logged out",
	})
}

// UpdatePasswordPayload carries the current and replacement passwords
type UpdatePasswordPayload struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// Validate will validate the payload
func (r UpdatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) UpdatePassword(ctx *fiber.Ctx) error {
	grant, err := GrantFromFiber(ctx)
	if err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	userID, err := GrantUserUUID(grant)
	if err != nil {
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	payload := new(UpdatePasswordPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("update password parse payload: %s", err)
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("update password validate payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest), a.Logger)
	}

	if err := a.Auther.UpdatePassword(ctx.Context(), userID, payload.CurrentPassword, payload.NewPassword); err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	return ctx.JSON(fiber.Map{
		"message": "Success! Password Updated",
	})
}

// RevokeSessionPayload names the account whose session gets flagged invalid
type RevokeSessionPayload struct {
	UserID string `json:"user_id" form:"user_id"`
}

// Validate will validate the payload
func (r RevokeSessionPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUIDv4),
	)
}

func (a *AuthController) RevokeSession(ctx *fiber.Ctx) error {
	payload := new(RevokeSessionPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("revoke session parse payload: %s", err)
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("revoke session validate payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest), a.Logger)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return RenderError(ctx, ErrUnableToParseData.Clone(), a.Logger)
	}

	if err := a.Auther.RevokeSession(ctx.Context(), userID); err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	return ctx.JSON(fiber.Map{
		"message": "session revoked",
	})
}

func (a *AuthController) ShowCurrentUser(ctx *fiber.Ctx) error {
	grant, err := GrantFromFiber(ctx)
	if err != nil {
		return RenderError(ctx, err, a.Logger)
	}

	return ctx.JSON(fiber.Map{
		"user": TokenUser{
			ID:   grant.UserID(),
			Name: grant.Name(),
			Role: grant.Role(),
		},
	})
}
