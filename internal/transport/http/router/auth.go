package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-user-api/internal/core/auth"
	"go-user-api/internal/core/limiter"
	"go-user-api/internal/domain"
	"go-user-api/internal/repo"
	"go-user-api/internal/transport/http/ez"
	mdw "go-user-api/internal/transport/http/middleware"
)

type loginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// mountAuthActions wires /auth/login on the public group and /me on the
// authenticated one.
func mountAuthActions(api, authed *gin.RouterGroup, users *repo.UserRepo, jwter *auth.JWTer, throttle *limiter.Login) {
	ezPublic := ez.New(api)

	ez.Register(ezPublic, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			ctx := c.Request.Context()
			key := "login:" + c.ClientIP()
			if throttle != nil && !throttle.Allow(ctx, key) {
				return loginOut{}, ez.TooMany("too many login attempts")
			}

			u, err := users.Authenticate(ctx, in.Email, in.Password)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					return loginOut{}, ez.Unauthorized(err.Error())
				}
				return loginOut{}, ez.Internal("login failed", err)
			}
			if !users.IsActive(u) {
				return loginOut{}, ez.Forbidden("user is inactive")
			}

			tok, err := jwter.Issue(u.ID, users.IsSuperuser(u))
			if err != nil {
				return loginOut{}, ez.Internal("issue token failed", err)
			}
			if throttle != nil {
				throttle.Reset(ctx, key)
			}
			return loginOut{Token: tok, User: u}, nil
		},
	})

	ezAuthed := ez.New(authed)

	ez.Register(ezAuthed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			uid := c.GetUint(mdw.KeyUserID)
			if uid == 0 {
				return nil, ez.Unauthorized("unauthorized")
			}
			u, err := users.Get(c.Request.Context(), uid)
			if err != nil {
				return nil, ez.Internal("db error", err)
			}
			if u == nil {
				return nil, ez.NotFound("user not found")
			}
			return u, nil
		},
	})
}
