package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jce-consulta/cedula-cli/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return db
}

func testUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:        "user@example.com",
		PasswordHash: "x",
		Name:         "Test User",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRefreshTokenRotation(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)

	first, err := GenerateRefreshToken(db, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)
	require.True(t, first.IsValid())
	require.WithinDuration(t, time.Now().Add(RefreshTokenTTL), first.ExpiresAt, time.Minute)

	second, err := RotateRefreshToken(db, first.Token)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)
	require.Equal(t, user.ID, second.UserID)

	// The rotated-out token is revoked and cannot be used again
	_, err = RotateRefreshToken(db, first.Token)
	require.Error(t, err)
}

func TestRotateUnknownToken(t *testing.T) {
	db := testDB(t)

	_, err := RotateRefreshToken(db, "no-such-token")
	require.Error(t, err)
}

func TestRotateExpiredToken(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)

	token, err := GenerateRefreshToken(db, user.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(token).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = RotateRefreshToken(db, token.Token)
	require.Error(t, err)
}

func TestRevokeRefreshToken(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)

	token, err := GenerateRefreshToken(db, user.ID)
	require.NoError(t, err)

	require.NoError(t, RevokeRefreshToken(db, token.Token))

	var stored models.RefreshToken
	require.NoError(t, db.Where("token = ?", token.Token).First(&stored).Error)
	require.True(t, stored.Revoked)
	require.False(t, stored.IsValid())

	// Revoking a token nobody issued is not an error
	require.NoError(t, RevokeRefreshToken(db, "no-such-token"))
}

func TestRevokeUserTokens(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)

	for i := 0; i < 3; i++ {
		_, err := GenerateRefreshToken(db, user.ID)
		require.NoError(t, err)
	}

	require.NoError(t, RevokeUserTokens(db, user.ID))

	var live int64
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Count(&live).Error)
	require.Zero(t, live)
}
