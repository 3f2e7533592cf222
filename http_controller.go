package auth

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

type AuthControllerRoutes struct {
	Login        string
	RefreshToken string
	Users        string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Auther *Auther
	Config Config
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:        "/auth/login",
			RefreshToken: "/auth/refresh-token",
			Users:        "/auth/users",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

// RegisterAuthRoutes mounts the JSON API. Registration and login are open;
// everything else sits behind the bearer middleware plus per-operation
// guards, Authenticated first, then the target-specific guard.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	authenticated := RequireAuthenticated(controller.Auther, controller.Config, controller.Logger)
	adminOnly := GuardedBy(controller.Logger, Authenticated(), Admin())

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Get(controller.Routes.RefreshToken, controller.RefreshToken).
		SetName("auth.refresh")

	app.Post(controller.Routes.Users, controller.RegisterUser).
		SetName("users.register")

	app.Get(controller.Routes.Users, authenticated(adminOnly(controller.ListUsers))).
		SetName("users.list")

	app.Get(fmt.Sprintf("%s/:identifier", controller.Routes.Users), authenticated(controller.ShowUser)).
		SetName("users.show")

	app.Patch(fmt.Sprintf("%s/:identifier", controller.Routes.Users), authenticated(controller.UpdateUser)).
		SetName("users.update")

	app.Post(fmt.Sprintf("%s/:identifier/permissions/:permission", controller.Routes.Users),
		authenticated(adminOnly(controller.GrantPermission))).
		SetName("users.permissions.grant")

	app.Delete(fmt.Sprintf("%s/:identifier/permissions/:permission", controller.Routes.Users),
		authenticated(adminOnly(controller.RevokePermission))).
		SetName("users.permissions.revoke")

	app.Get(fmt.Sprintf("%s/:identifier/following", controller.Routes.Users),
		authenticated(controller.ListFollowing)).
		SetName("users.following")

	app.Post(fmt.Sprintf("%s/:identifier/enable", controller.Routes.Users),
		authenticated(adminOnly(controller.EnableUser))).
		SetName("users.enable")

	app.Post(fmt.Sprintf("%s/:identifier/disable", controller.Routes.Users),
		authenticated(adminOnly(controller.DisableUser))).
		SetName("users.disable")

	app.Post(fmt.Sprintf("%s/:identifier/follow/:other", controller.Routes.Users),
		authenticated(controller.FollowUser)).
		SetName("users.follow")

	app.Delete(fmt.Sprintf("%s/:identifier/follow/:other", controller.Routes.Users),
		authenticated(controller.UnfollowUser)).
		SetName("users.unfollow")
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
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

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		if !IsAuthFailure(err) {
			a.Logger.Error("login infrastructure failure", "error", err)
			return ctx.JSON(router.StatusInternalServerError, map[string]string{
				"error": "internal error",
			})
		}
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": GenericAuthMessage,
		})
	}

	user, err := a.Repo.Users().GetByEmail(ctx.Context(), payload.Email)
	if err != nil {
		a.Logger.Error("login user fetch failure", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

// RefreshToken exchanges a still-valid bearer token for a fresh one. Anyone
// holding a valid token can refresh; there is no target to guard.
func (a *AuthController) RefreshToken(ctx router.Context) error {
	token, err := TokenFromHeader(ctx, a.Config.GetAuthScheme())
	if err != nil {
		return unauthorized(ctx)
	}

	fresh, err := a.Auther.RefreshToken(ctx.Context(), token)
	if err != nil {
		if !IsAuthFailure(err) {
			a.Logger.Error("refresh infrastructure failure", "error", err)
			return ctx.JSON(router.StatusInternalServerError, map[string]string{
				"error": "internal error",
			})
		}
		return unauthorized(ctx)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"token": fresh,
	})
}

// RegisterUserPayload is the registration payload
type RegisterUserPayload struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Phone     string `form:"phone_number" json:"phone_number"`
	Password  string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegisterUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.Length(10, 11), is.Digit),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) RegisterUser(ctx router.Context) error {
	payload := new(RegisterUserPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse payload",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	user, err := registerUser.Execute(ctx.Context(), RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Username:  payload.Username,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Password:  payload.Password,
	})
	if err != nil {
		a.Logger.Error("register user execute", "error", err)
		return ctx.JSON(router.StatusConflict, map[string]string{
			"error": "could not register user",
		})
	}

	return ctx.JSON(router.StatusCreated, user)
}

func (a *AuthController) ListUsers(ctx router.Context) error {
	records, err := a.Repo.Users().ListAll(ctx.Context())
	if err != nil {
		a.Logger.Error("list users", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}

	return ctx.JSON(router.StatusOK, records)
}

func (a *AuthController) ShowUser(ctx router.Context) error {
	target := ctx.Param("identifier", "")

	if err := EvaluateGuards(ctx.Context(), a.Logger, Authenticated(), SelfOrAdmin(target)); err != nil {
		return unauthorized(ctx)
	}

	user, err := a.findUser(ctx, target)
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

// UpdatePasswordPayload re-validates the old password before the new one is
// hashed and written through the explicit password path.
type UpdatePasswordPayload struct {
	OldPassword string `form:"old_password" json:"old_password"`
	NewPassword string `form:"new_password" json:"new_password"`
}

func (r UpdatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// UpdateUserPayload carries profile changes plus an optional password change
type UpdateUserPayload struct {
	ProfilePatch
	Password *UpdatePasswordPayload `form:"password" json:"password,omitempty"`
}

func (a *AuthController) UpdateUser(ctx router.Context) error {
	target := ctx.Param("identifier", "")

	if err := EvaluateGuards(ctx.Context(), a.Logger, Authenticated(), SelfOrAdmin(target)); err != nil {
		return unauthorized(ctx)
	}

	payload := new(UpdateUserPayload)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse payload",
		})
	}

	user, err := a.findUser(ctx, target)
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	if payload.Password != nil {
		if err := payload.Password.Validate(); err != nil {
			return ctx.JSON(router.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}

		if _, err := a.Auther.Login(ctx.Context(), user.Email, payload.Password.OldPassword); err != nil {
			return unauthorized(ctx)
		}

		if err := a.Repo.Users().UpdatePassword(ctx.Context(), user.ID, payload.Password.NewPassword); err != nil {
			a.Logger.Error("update password", "error", err)
			return ctx.JSON(router.StatusInternalServerError, map[string]string{
				"error": "internal error",
			})
		}
	}

	updated, err := a.Repo.Users().UpdateProfile(ctx.Context(), user.ID, payload.ProfilePatch)
	if err != nil {
		a.Logger.Error("update profile", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (a *AuthController) GrantPermission(ctx router.Context) error {
	handler := NewPermissionHandler(a.Repo)

	user, err := handler.Grant(ctx.Context(), GrantPermissionMessage{
		Identifier: ctx.Param("identifier", ""),
		Permission: ctx.Param("permission", ""),
	})
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) RevokePermission(ctx router.Context) error {
	handler := NewPermissionHandler(a.Repo)

	user, err := handler.Revoke(ctx.Context(), RevokePermissionMessage{
		Identifier: ctx.Param("identifier", ""),
		Permission: ctx.Param("permission", ""),
	})
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) ListFollowing(ctx router.Context) error {
	target := ctx.Param("identifier", "")

	if err := EvaluateGuards(ctx.Context(), a.Logger, Authenticated(), SelfOrAdmin(target)); err != nil {
		return unauthorized(ctx)
	}

	user, err := a.findUser(ctx, target)
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	records, err := a.Repo.Users().Following(ctx.Context(), user.ID)
	if err != nil {
		a.Logger.Error("list following", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}

	return ctx.JSON(router.StatusOK, records)
}

// EnableUser re-activates an account so logins and tokens resolve again.
func (a *AuthController) EnableUser(ctx router.Context) error {
	return a.setEnabled(ctx, true)
}

// DisableUser is the revocation path: every outstanding token for the
// account stops resolving on its next use.
func (a *AuthController) DisableUser(ctx router.Context) error {
	return a.setEnabled(ctx, false)
}

func (a *AuthController) setEnabled(ctx router.Context, enabled bool) error {
	user, err := a.findUser(ctx, ctx.Param("identifier", ""))
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	updated, err := a.Repo.Users().SetEnabled(ctx.Context(), user.ID, enabled)
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (a *AuthController) FollowUser(ctx router.Context) error {
	return a.mutateFollow(ctx, a.Repo.Users().Follow)
}

func (a *AuthController) UnfollowUser(ctx router.Context) error {
	return a.mutateFollow(ctx, a.Repo.Users().Unfollow)
}

func (a *AuthController) mutateFollow(ctx router.Context, op func(ctx context.Context, follower, followee uuid.UUID) error) error {
	target := ctx.Param("identifier", "")

	if err := EvaluateGuards(ctx.Context(), a.Logger, Authenticated(), SelfOrAdmin(target)); err != nil {
		return unauthorized(ctx)
	}

	follower, err := a.findUser(ctx, target)
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	followee, err := a.findUser(ctx, ctx.Param("other", ""))
	if err != nil {
		return a.userLookupError(ctx, err)
	}

	if err := op(ctx.Context(), follower.ID, followee.ID); err != nil {
		a.Logger.Error("follow mutation", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}

	return ctx.JSON(router.StatusOK, follower)
}

func (a *AuthController) findUser(ctx router.Context, identifier string) (*User, error) {
	users := a.Repo.Users()

	user, err := users.GetByEmail(ctx.Context(), identifier)
	if err == nil {
		return user, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return users.GetByUsername(ctx.Context(), identifier)
}

func (a *AuthController) userLookupError(ctx router.Context, err error) error {
	if repository.IsRecordNotFound(err) {
		return ctx.JSON(router.StatusNotFound, map[string]string{
			"error": "the user does not exist",
		})
	}

	a.Logger.Error("user lookup", "error", err)
	return ctx.JSON(router.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}
