package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/auth"
	"github.com/jce-consulta/cedula-cli/internal/models"
	"github.com/jce-consulta/cedula-cli/internal/validate"
)

// New accounts start with a few free tokens to try the service
const welcomeTokens = 3

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authPayload is the data field of every auth response
type authPayload struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

func (s *Server) issueTokens(user *models.User) (*authPayload, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := auth.GenerateRefreshToken(s.db, user.ID)
	if err != nil {
		return nil, err
	}

	return &authPayload{
		Token:        accessToken,
		RefreshToken: refreshToken.Token,
		User:         user,
	}, nil
}

// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := validate.Registration(req.Name, req.Email, req.Password, req.ConfirmPassword); err != nil {
		respondFail(c, err.Error())
		return
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		respondFail(c, "An account with this email already exists")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         models.RoleUser,
		Tokens:       welcomeTokens,
		IsActive:     true,
	}

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	payload, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue tokens")
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	respondCreated(c, payload, "Account created successfully")
}

// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.IsActive {
		respondError(c, http.StatusForbidden, "Account is deactivated")
		return
	}

	payload, err := s.issueTokens(&user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue tokens")
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("User logged in")
	respondOK(c, payload, "Login successful")
}

// @Router /auth/refresh [post]
func (s *Server) refresh(c *gin.Context) {
	tokenString := c.Query("refreshToken")
	if tokenString == "" {
		respondError(c, http.StatusBadRequest, "Missing refresh token")
		return
	}

	rotated, err := auth.RotateRefreshToken(s.db, tokenString)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	var user models.User
	if err := models.FindByID(s.db, rotated.UserID, &user); err != nil {
		respondError(c, http.StatusUnauthorized, "User not found")
		return
	}
	if !user.IsActive {
		respondError(c, http.StatusForbidden, "Account is deactivated")
		return
	}

	accessToken, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate access token")
		respondError(c, http.StatusInternalServerError, "Failed to refresh session")
		return
	}

	respondOK(c, authPayload{
		Token:        accessToken,
		RefreshToken: rotated.Token,
		User:         &user,
	}, "Session refreshed")
}

// @Router /auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	session, _ := GetSessionData(c)

	// Revoking an unknown token is fine; logout always succeeds
	if tokenString := c.Query("refreshToken"); tokenString != "" {
		if err := auth.RevokeRefreshToken(s.db, tokenString); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to revoke refresh token")
		}
	}

	if session != nil {
		s.logger.Info().Str("user_id", session.UserID).Msg("User logged out")
	}
	respondOK(c, nil, "Logged out")
}

// @Router /auth/me [get]
func (s *Server) getCurrentUser(c *gin.Context) {
	session, exists := GetSessionData(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := models.FindByID(s.db, session.UserID, &user); err != nil {
		respondError(c, http.StatusUnauthorized, "User not found")
		return
	}

	respondOK(c, gin.H{"user": &user}, "")
}

// @Router /auth/validate [get]
func (s *Server) validateSession(c *gin.Context) {
	// Reaching this handler means the JWT middleware accepted the token
	respondOK(c, true, "Token is valid")
}

// @Router /auth/change-password [post]
func (s *Server) changePassword(c *gin.Context) {
	session, exists := GetSessionData(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	currentPassword := c.Query("currentPassword")
	newPassword := c.Query("newPassword")
	confirmPassword := c.Query("confirmPassword")

	if err := validate.PasswordChange(currentPassword, newPassword, confirmPassword); err != nil {
		respondFail(c, err.Error())
		return
	}

	var user models.User
	if err := models.FindByID(s.db, session.UserID, &user); err != nil {
		respondError(c, http.StatusUnauthorized, "User not found")
		return
	}

	if err := auth.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		respondFail(c, "Current password is incorrect")
		return
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password_hash", passwordHash).Error; err != nil {
			return err
		}
		// Changing the password invalidates every open session
		return auth.RevokeUserTokens(tx, user.ID)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to change password")
		respondError(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Password changed")
	respondOK(c, nil, "Password changed successfully")
}
