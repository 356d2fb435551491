package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jce-consulta/cedula-cli/internal/models"
)

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
	"tokens":    "tokens",
}

// @Router /users [get]
func (s *Server) listUsers(c *gin.Context) {
	page, size := parsePagination(c, 20)

	sortColumn, ok := userSortColumns[c.DefaultQuery("sortBy", "createdAt")]
	if !ok {
		sortColumn = "created_at"
	}
	sortDir := "DESC"
	if c.DefaultQuery("sortDir", "desc") == "asc" {
		sortDir = "ASC"
	}

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	var users []models.User
	err := s.db.Order(sortColumn + " " + sortDir).
		Offset(page * size).Limit(size).
		Find(&users).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	respondOK(c, newPage(users, total, page, size), "")
}

// @Router /users/search [get]
func (s *Server) searchUsers(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		respondFail(c, "Search term is required")
		return
	}

	page, size := parsePagination(c, 20)
	pattern := "%" + term + "%"

	scope := s.db.Model(&models.User{}).
		Where("name LIKE ? OR email LIKE ?", pattern, pattern)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to search users")
		return
	}

	var users []models.User
	err := scope.Order("created_at DESC").
		Offset(page * size).Limit(size).
		Find(&users).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to search users")
		return
	}

	respondOK(c, newPage(users, total, page, size), "")
}

// @Router /users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	respondOK(c, &user, "")
}

// @Router /users/{id}/toggle-status [put]
func (s *Server) toggleUserStatus(c *gin.Context) {
	session, _ := GetSessionData(c)

	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	// Admins cannot lock themselves out
	if user.ID == session.UserID {
		respondFail(c, "You cannot deactivate your own account")
		return
	}

	user.IsActive = !user.IsActive
	if err := s.db.Model(&user).Update("is_active", user.IsActive).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Bool("is_active", user.IsActive).Msg("User status toggled")
	respondOK(c, &user, "User status updated")
}

// @Router /users/{id}/tokens [put]
func (s *Server) setUserTokens(c *gin.Context) {
	tokens, err := strconv.Atoi(c.Query("tokens"))
	if err != nil || tokens < 0 {
		respondError(c, http.StatusBadRequest, "Invalid token amount")
		return
	}

	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	user.Tokens = tokens
	if err := s.db.Model(&user).Update("tokens", tokens).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Int("tokens", tokens).Msg("User token balance set")
	respondOK(c, &user, "Token balance updated")
}

// @Router /users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	session, _ := GetSessionData(c)

	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	if user.ID == session.UserID {
		respondFail(c, "You cannot delete your own account")
		return
	}

	if err := s.db.Delete(&user).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to delete user")
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User deleted")
	respondOK(c, "deleted", "User deleted")
}

type userStatsResponse struct {
	TotalUsers             int64 `json:"totalUsers"`
	ActiveUsers            int64 `json:"activeUsers"`
	InactiveUsers          int64 `json:"inactiveUsers"`
	TotalTokensDistributed int64 `json:"totalTokensDistributed"`
}

func (s *Server) collectUserStats() (*userStatsResponse, error) {
	var stats userStatsResponse
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers

	var tokens *int64
	if err := s.db.Model(&models.User{}).Select("SUM(tokens)").Scan(&tokens).Error; err != nil {
		return nil, err
	}
	if tokens != nil {
		stats.TotalTokensDistributed = *tokens
	}

	return &stats, nil
}

// @Router /users/stats [get]
func (s *Server) userStats(c *gin.Context) {
	stats, err := s.collectUserStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load user statistics")
		return
	}

	respondOK(c, stats, "")
}
