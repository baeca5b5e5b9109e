package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catering/entities"
)

func TestMigrateIsRepeatable(t *testing.T) {
	db, err := OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.Proposal{ID: "p1", RequestID: "r1", Version: 1, Status: entities.ProposalDraft}).Error)
	require.NoError(t, Migrate(db))

	var p entities.Proposal
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.Equal(t, 1, p.Version)
	for _, m := range models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	db, err := OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(db, " Admin@Example.com ", "s3cret"))
	require.NoError(t, SeedAdmin(db, "admin@example.com", "other"))

	var users []entities.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("s3cret")))
}

func TestSeedAdminSkipsWithoutCredentials(t *testing.T) {
	db, err := OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(db, "", ""))
	var n int64
	db.Model(&entities.User{}).Count(&n)
	assert.Zero(t, n)
}
