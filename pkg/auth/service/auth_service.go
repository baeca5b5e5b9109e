package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"catering/entities"
)

const CookieName = "admin_session"

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *entities.User, error)
	Verify(token string) (*Claims, error)
	TTL() time.Duration
}
