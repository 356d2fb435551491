package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/models"
)

// CreateOrderRequest represents a token purchase request
type CreateOrderRequest struct {
	Tokens int `json:"tokens" binding:"required,min=1"`
}

// paymentVerification is the data field of /payments/verify responses
type paymentVerification struct {
	Verified bool `json:"verified"`
	Tokens   int  `json:"tokens"`
}

func (s *Server) loadSettings() (*models.AppSettings, error) {
	var settings models.AppSettings
	if err := s.db.First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// @Router /payments/create-order [post]
func (s *Server) createPaymentOrder(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	settings, err := s.loadSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if !settings.PaymentsEnabled {
		respondFail(c, "Payments are temporarily disabled")
		return
	}

	amount := math.Round(float64(req.Tokens)*settings.TokenPrice*100) / 100

	order := &models.PaymentOrder{
		UserID: session.UserID,
		Tokens: req.Tokens,
		Amount: amount,
		Status: models.PaymentPending,
	}

	if err := s.db.Create(order).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create payment order")
		respondError(c, http.StatusInternalServerError, "Failed to create payment order")
		return
	}

	// The checkout URL points at the provider's hosted payment page
	order.PaymentURL = fmt.Sprintf("https://pay.jceconsulta.do/checkout/%s", order.ID)
	if err := s.db.Model(order).Update("payment_url", order.PaymentURL).Error; err != nil {
		s.logger.Warn().Err(err).Msg("Failed to store payment URL")
	}

	s.logger.Info().Str("order_id", order.ID).Int("tokens", order.Tokens).Msg("Payment order created")
	respondCreated(c, order, "Payment order created")
}

// @Router /payments/verify/{id} [post]
func (s *Server) verifyPayment(c *gin.Context) {
	session, _ := GetSessionData(c)

	var order models.PaymentOrder
	err := s.db.Where("id = ? AND user_id = ?", c.Param("id"), session.UserID).
		First(&order).Error
	if err != nil {
		respondError(c, http.StatusNotFound, "Payment order not found")
		return
	}

	verified := order.Status == models.PaymentCompleted
	tokens := 0
	if verified {
		tokens = order.Tokens
	}

	respondOK(c, paymentVerification{Verified: verified, Tokens: tokens}, "")
}

// @Router /payments/history [get]
func (s *Server) paymentHistory(c *gin.Context) {
	session, _ := GetSessionData(c)

	page, size := parsePagination(c, 10)

	scope := s.db.Model(&models.PaymentOrder{}).Where("user_id = ?", session.UserID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load payment history")
		return
	}

	var orders []models.PaymentOrder
	err := scope.Order("created_at DESC").
		Offset(page * size).Limit(size).
		Find(&orders).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load payment history")
		return
	}

	respondOK(c, newPage(orders, total, page, size), "")
}

// @Router /payments/tokens [get]
func (s *Server) tokenBalance(c *gin.Context) {
	session, _ := GetSessionData(c)

	var user models.User
	if err := models.FindByID(s.db, session.UserID, &user); err != nil {
		respondError(c, http.StatusUnauthorized, "User not found")
		return
	}

	respondOK(c, gin.H{"tokens": user.Tokens}, "")
}

// @Router /payments/pending [get]
func (s *Server) pendingPayments(c *gin.Context) {
	var orders []models.PaymentOrder
	err := s.db.Where("status = ?", models.PaymentPending).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load pending payments")
		return
	}

	respondOK(c, orders, "")
}

// @Router /payments/expired [get]
func (s *Server) expiredPayments(c *gin.Context) {
	var orders []models.PaymentOrder
	err := s.db.Where("status = ?", models.PaymentExpired).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load expired payments")
		return
	}

	respondOK(c, orders, "")
}

// @Router /payments/{id}/confirm [post]
func (s *Server) confirmPayment(c *gin.Context) {
	var order models.PaymentOrder
	if err := models.FindByID(s.db, c.Param("id"), &order); err != nil {
		respondError(c, http.StatusNotFound, "Payment order not found")
		return
	}

	if order.Status != models.PaymentPending {
		respondFail(c, fmt.Sprintf("Order is %s, only pending orders can be confirmed", order.Status))
		return
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":       models.PaymentCompleted,
			"completed_at": &now,
		}).Error; err != nil {
			return err
		}
		// Credit the purchased tokens
		return tx.Model(&models.User{}).Where("id = ?", order.UserID).
			UpdateColumn("tokens", gorm.Expr("tokens + ?", order.Tokens)).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("Failed to confirm payment")
		respondError(c, http.StatusInternalServerError, "Failed to confirm payment")
		return
	}

	order.Status = models.PaymentCompleted
	order.CompletedAt = &now

	s.logger.Info().Str("order_id", order.ID).Int("tokens", order.Tokens).Msg("Payment confirmed")
	respondOK(c, order, "Payment confirmed")
}

// @Router /payments/{id}/fail [post]
func (s *Server) failPayment(c *gin.Context) {
	var order models.PaymentOrder
	if err := models.FindByID(s.db, c.Param("id"), &order); err != nil {
		respondError(c, http.StatusNotFound, "Payment order not found")
		return
	}

	if order.Status != models.PaymentPending {
		respondFail(c, fmt.Sprintf("Order is %s, only pending orders can be failed", order.Status))
		return
	}

	reason := c.DefaultQuery("reason", "manually failed")
	err := s.db.Model(&order).Updates(map[string]interface{}{
		"status":        models.PaymentFailed,
		"error_message": reason,
	}).Error
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("Failed to update payment order")
		respondError(c, http.StatusInternalServerError, "Failed to update payment order")
		return
	}

	order.Status = models.PaymentFailed
	order.ErrorMessage = reason
	respondOK(c, order, "Payment marked as failed")
}

// @Router /payments/cleanup-expired [post]
func (s *Server) cleanupExpiredPayments(c *gin.Context) {
	hoursOld, err := strconv.Atoi(c.DefaultQuery("hoursOld", "24"))
	if err != nil || hoursOld < 1 {
		hoursOld = 24
	}

	count, err := ExpirePendingOrders(s.db, hoursOld)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to expire payment orders")
		respondError(c, http.StatusInternalServerError, "Failed to expire payment orders")
		return
	}

	respondOK(c, count, fmt.Sprintf("Expired %d payment order(s)", count))
}

// ExpirePendingOrders marks pending orders older than the cutoff as expired.
// The cron worker and the admin endpoint share this path.
func ExpirePendingOrders(db *gorm.DB, hoursOld int) (int64, error) {
	cutoff := time.Now().Add(-time.Duration(hoursOld) * time.Hour)
	result := db.Model(&models.PaymentOrder{}).
		Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).
		Update("status", models.PaymentExpired)
	return result.RowsAffected, result.Error
}
