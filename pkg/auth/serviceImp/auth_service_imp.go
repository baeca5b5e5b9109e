package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/auth/service"
	"catering/pkg/logger"
)

const issuer = "catering-admin"

type authSvc struct {
	db     *gorm.DB
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, secret string, ttl time.Duration) service.AuthService {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &authSvc{db: db, log: log.With("service", "auth"), secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *authSvc) TTL() time.Duration { return s.ttl }

func (s *authSvc) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apierr.Validation("Email and password are required", nil)
	}
	var u entities.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apierr.Unauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("admin login rejected", "email", email)
		return "", nil, apierr.Unauthorized("invalid credentials")
	}
	now := s.now()
	claims := service.Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("admin logged in", "email", u.Email)
	return token, &u, nil
}

func (s *authSvc) Verify(token string) (*service.Claims, error) {
	var claims service.Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, apierr.Unauthorized("invalid session")
	}
	return &claims, nil
}
