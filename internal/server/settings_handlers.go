package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// publicSettings is the settings shape exposed without authentication.
// The cleanup schedule and JWT secret stay server-side.
type publicSettings struct {
	SiteName        string  `json:"siteName"`
	SiteDescription string  `json:"siteDescription"`
	TokenPrice      float64 `json:"tokenPrice"`
	QueriesEnabled  bool    `json:"queriesEnabled"`
	PaymentsEnabled bool    `json:"paymentsEnabled"`
}

// UpdateSettingsRequest represents a settings update
type UpdateSettingsRequest struct {
	SiteName        string  `json:"siteName" binding:"required" validate:"required,min=1,max=100"`
	SiteDescription string  `json:"siteDescription" validate:"max=500"`
	TokenPrice      float64 `json:"tokenPrice" binding:"required,gt=0" validate:"required,gt=0"`
	QueriesEnabled  bool    `json:"queriesEnabled"`
	PaymentsEnabled bool    `json:"paymentsEnabled"`
	CleanupSchedule string  `json:"cleanupSchedule"`
}

// @Router /settings/public [get]
func (s *Server) getPublicSettings(c *gin.Context) {
	settings, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	respondOK(c, publicSettings{
		SiteName:        settings.SiteName,
		SiteDescription: settings.SiteDescription,
		TokenPrice:      settings.TokenPrice,
		QueriesEnabled:  settings.QueriesEnabled,
		PaymentsEnabled: settings.PaymentsEnabled,
	}, "")
}

// @Router /settings/token-price [get]
func (s *Server) getTokenPrice(c *gin.Context) {
	settings, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	respondOK(c, settings.TokenPrice, "")
}

// @Router /settings [put]
func (s *Server) updateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if req.CleanupSchedule != "" {
		if _, err := cron.ParseStandard(req.CleanupSchedule); err != nil {
			respondFail(c, "Invalid cleanup schedule: "+err.Error())
			return
		}
	}

	settings, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	updates := map[string]interface{}{
		"site_name":        req.SiteName,
		"site_description": req.SiteDescription,
		"token_price":      req.TokenPrice,
		"queries_enabled":  req.QueriesEnabled,
		"payments_enabled": req.PaymentsEnabled,
	}
	if req.CleanupSchedule != "" {
		updates["cleanup_schedule"] = req.CleanupSchedule
	}

	if err := s.db.Model(settings).Updates(updates).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update settings")
		respondError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	updated, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	s.logger.Info().Msg("Application settings updated")
	respondOK(c, updated, "Settings updated")
}
