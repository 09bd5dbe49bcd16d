package usecase

import (
	"context"
	"errors"

	"govtjobs/internal/domain/user"
	"govtjobs/internal/pkg/jwt"
	ucauth "govtjobs/internal/usecase/auth"
)

type Tokens struct {
	Access  string
	Refresh string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, Tokens, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (user.User, Tokens, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(svc *ucauth.Service, users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: svc, users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, Tokens, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, Tokens{}, err
	}
	t, err := u.issue(usr)
	if err != nil {
		return user.User{}, Tokens{}, err
	}
	return usr, t, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, Tokens, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, Tokens{}, err
	}
	t, err := u.issue(usr)
	if err != nil {
		return user.User{}, Tokens{}, err
	}
	return usr, t, nil
}

// Refresh rotates both tokens. The role is re-read from the store so a
// demoted admin loses access on the next refresh.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (user.User, Tokens, error) {
	if refreshToken == "" {
		return user.User{}, Tokens{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return user.User{}, Tokens{}, ErrRefreshTokenExpired
		}
		return user.User{}, Tokens{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, Tokens{}, ErrInvalidRefreshToken
		}
		return user.User{}, Tokens{}, ErrInternal
	}

	t, err := u.issue(usr)
	if err != nil {
		return user.User{}, Tokens{}, err
	}
	return ucauth.SanitizeUser(usr), t, nil
}

func (u *Auth) issue(usr user.User) (Tokens, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email, usr.Role)
	if err != nil {
		return Tokens{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return Tokens{}, ErrInternal
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}
