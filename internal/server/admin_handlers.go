package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/logger"
	"github.com/jce-consulta/cedula-cli/internal/models"
)

type paymentStatsResponse struct {
	TotalPayments     int64   `json:"totalPayments"`
	CompletedPayments int64   `json:"completedPayments"`
	PendingPayments   int64   `json:"pendingPayments"`
	FailedPayments    int64   `json:"failedPayments"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

func (s *Server) collectPaymentStats() (*paymentStatsResponse, error) {
	var stats paymentStatsResponse
	scope := func() *gorm.DB { return s.db.Model(&models.PaymentOrder{}) }

	if err := scope().Count(&stats.TotalPayments).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", models.PaymentCompleted).Count(&stats.CompletedPayments).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", models.PaymentPending).Count(&stats.PendingPayments).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", models.PaymentFailed).Count(&stats.FailedPayments).Error; err != nil {
		return nil, err
	}

	var revenue *float64
	err := scope().Where("status = ?", models.PaymentCompleted).
		Select("SUM(amount)").Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}

	return &stats, nil
}

// @Router /admin/dashboard [get]
func (s *Server) dashboard(c *gin.Context) {
	userStats, err := s.collectUserStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	queryStats, err := s.collectQueryStats("")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	paymentStats, err := s.collectPaymentStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	settings, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	respondOK(c, gin.H{
		"userStats":    userStats,
		"queryStats":   queryStats,
		"paymentStats": paymentStats,
		"tokenPrice":   settings.TokenPrice,
	}, "")
}

// @Router /admin/health-check [get]
func (s *Server) adminHealthCheck(c *gin.Context) {
	checks := map[string]string{}
	status := "healthy"

	// Database connectivity
	if sqlDB, err := s.db.DB(); err == nil && sqlDB.Ping() == nil {
		checks["database"] = "ok"
	} else {
		checks["database"] = "unreachable"
		status = "degraded"
	}

	// Redis connectivity via the Asynq client
	if err := s.asynqClient.Ping(); err == nil {
		checks["redis"] = "ok"
	} else {
		checks["redis"] = "unreachable"
		status = "degraded"
	}

	checks["uptime"] = time.Since(s.startedAt).Round(time.Second).String()

	respondOK(c, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}, "")
}

// @Router /admin/cleanup [post]
func (s *Server) systemCleanup(c *gin.Context) {
	expiredPayments, err := ExpirePendingOrders(s.db, 24)
	if err != nil {
		s.logger.Error().Err(err).Msg("Cleanup failed")
		respondError(c, http.StatusInternalServerError, "Cleanup failed")
		return
	}

	// Queries stuck in PENDING for over an hour were abandoned by the worker
	cutoff := time.Now().Add(-time.Hour)
	result := s.db.Model(&models.CedulaQuery{}).
		Where("status = ? AND created_at < ?", models.QueryPending, cutoff).
		Update("status", models.QueryFailed)
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Cleanup failed")
		respondError(c, http.StatusInternalServerError, "Cleanup failed")
		return
	}

	s.logger.Info().
		Int64("expired_payments", expiredPayments).
		Int64("stale_queries", result.RowsAffected).
		Msg("System cleanup complete")

	respondOK(c, gin.H{
		"expiredPayments": expiredPayments,
		"staleQueries":    result.RowsAffected,
	}, "Cleanup complete")
}

// @Router /admin/logs [get]
func (s *Server) systemLogs(c *gin.Context) {
	lines, err := strconv.Atoi(c.DefaultQuery("lines", "50"))
	if err != nil || lines < 1 {
		lines = 50
	}
	if lines > 1000 {
		lines = 1000
	}

	level := c.DefaultQuery("level", "info")

	respondOK(c, logger.Recent(lines, level), "")
}

// @Router /admin/token-price [put]
func (s *Server) updateTokenPrice(c *gin.Context) {
	newPrice, err := strconv.ParseFloat(c.Query("newPrice"), 64)
	if err != nil || newPrice <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid price")
		return
	}

	settings, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	if err := s.db.Model(settings).Update("token_price", newPrice).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update token price")
		return
	}

	s.logger.Info().Float64("token_price", newPrice).Msg("Token price updated")
	respondOK(c, newPrice, "Token price updated")
}

// @Router /admin/settings [get]
func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	respondOK(c, settings, "")
}
