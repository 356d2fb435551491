package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/models"
)

// Refresh tokens are opaque and rotated on every use.
const RefreshTokenTTL = 30 * 24 * time.Hour

// GenerateRefreshToken creates and stores a new refresh token for a user
func GenerateRefreshToken(db *gorm.DB, userID string) (*models.RefreshToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	token := &models.RefreshToken{
		Token:     base64.RawURLEncoding.EncodeToString(raw),
		UserID:    userID,
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}

	if err := db.Create(token).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return token, nil
}

// RotateRefreshToken validates a refresh token, revokes it, and issues a
// replacement. An expired or already-used token yields an error.
func RotateRefreshToken(db *gorm.DB, tokenString string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.Where("token = ?", tokenString).First(&token).Error; err != nil {
		return nil, fmt.Errorf("refresh token not found")
	}

	if !token.IsValid() {
		return nil, fmt.Errorf("refresh token expired or revoked")
	}

	if err := db.Model(&token).Update("revoked", true).Error; err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return GenerateRefreshToken(db, token.UserID)
}

// RevokeRefreshToken revokes a single refresh token. Unknown tokens are not
// an error; logout must succeed regardless.
func RevokeRefreshToken(db *gorm.DB, tokenString string) error {
	return db.Model(&models.RefreshToken{}).
		Where("token = ?", tokenString).
		Update("revoked", true).Error
}

// RevokeUserTokens revokes every refresh token belonging to a user
func RevokeUserTokens(db *gorm.DB, userID string) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
