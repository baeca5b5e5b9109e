package serviceImp

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering/database"
	"catering/pkg/apierr"
)

func TestLoginAndVerify(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, database.SeedAdmin(db, "admin@example.com", "pw123"))
	svc := NewAuthService(db, nil, "test-secret", time.Hour)

	token, u, err := svc.Login(context.Background(), " ADMIN@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.NotEmpty(t, claims.Subject)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, database.SeedAdmin(db, "admin@example.com", "pw123"))
	svc := NewAuthService(db, nil, "test-secret", time.Hour)

	_, _, err = svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "pw123")
	assert.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
	_, _, err = svc.Login(context.Background(), "", "")
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, database.SeedAdmin(db, "admin@example.com", "pw123"))

	svc := NewAuthService(db, nil, "test-secret", time.Minute).(*authSvc)
	token, _, err := svc.Login(context.Background(), "admin@example.com", "pw123")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Verify(token)
	assert.Error(t, err)

	other := NewAuthService(db, nil, "other-secret", time.Hour)
	_, err = other.Verify(token)
	assert.Error(t, err)
}
