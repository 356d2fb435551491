package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/models"
	"github.com/jce-consulta/cedula-cli/internal/registry"
	"github.com/jce-consulta/cedula-cli/internal/tasks"
	"github.com/jce-consulta/cedula-cli/internal/validate"
)

// QueryRequest represents a cédula lookup request. The cédula is validated
// after normalization, so dashed input is accepted.
type QueryRequest struct {
	Cedula string `json:"cedula" binding:"required" validate:"required,len=11,digits"`
}

// queryResponse is the wire shape of a query, with the stored result JSON
// embedded instead of base64-encoded bytes
type queryResponse struct {
	ID        string          `json:"id"`
	Cedula    string          `json:"cedula"`
	UserID    string          `json:"userId"`
	QueryDate time.Time       `json:"queryDate"`
	Result    json.RawMessage `json:"result"`
	Cost      int             `json:"cost"`
	Status    string          `json:"status"`
}

func toQueryResponse(q *models.CedulaQuery) queryResponse {
	resp := queryResponse{
		ID:        q.ID,
		Cedula:    q.Cedula,
		UserID:    q.UserID,
		QueryDate: q.QueryDate,
		Cost:      q.Cost,
		Status:    q.Status,
	}
	if len(q.Result) > 0 {
		resp.Result = json.RawMessage(q.Result)
	}
	return resp
}

func toQueryResponses(queries []models.CedulaQuery) []queryResponse {
	out := make([]queryResponse, len(queries))
	for i := range queries {
		out[i] = toQueryResponse(&queries[i])
	}
	return out
}

// spendToken atomically deducts one token from the user. It fails when the
// balance is already zero.
func (s *Server) spendToken(tx *gorm.DB, userID string) error {
	result := tx.Model(&models.User{}).
		Where("id = ? AND tokens > 0", userID).
		UpdateColumn("tokens", gorm.Expr("tokens - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("insufficient tokens")
	}
	return nil
}

func (s *Server) queriesEnabled() bool {
	var settings models.AppSettings
	if err := s.db.First(&settings).Error; err != nil {
		return false
	}
	return settings.QueriesEnabled
}

// @Router /cedula-queries/query [post]
func (s *Server) queryCedula(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	req.Cedula = validate.CleanCedula(req.Cedula)
	if err := s.validator.Struct(&req); err != nil {
		respondFail(c, "Cédula must be exactly 11 digits")
		return
	}
	cedula := req.Cedula

	if !s.queriesEnabled() {
		respondFail(c, "Queries are temporarily disabled")
		return
	}

	query := &models.CedulaQuery{
		Cedula:    cedula,
		UserID:    session.UserID,
		QueryDate: time.Now(),
		Cost:      1,
		Status:    models.QueryPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.spendToken(tx, session.UserID); err != nil {
			return err
		}
		return tx.Create(query).Error
	})
	if err != nil {
		respondFail(c, "Insufficient tokens. Buy more to keep querying.")
		return
	}

	record, err := registry.Lookup(cedula)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		query.Status = models.QueryCompleted
	case err != nil:
		// Registry failure: the user should not pay for it
		query.Status = models.QueryFailed
		s.logger.Error().Err(err).Str("cedula", cedula).Msg("Registry lookup failed")
		if err := s.db.Model(&models.User{}).Where("id = ?", session.UserID).
			UpdateColumn("tokens", gorm.Expr("tokens + 1")).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to refund token")
		}
	default:
		query.Status = models.QueryCompleted
		query.Result, _ = json.Marshal(record)
	}

	if err := s.db.Save(query).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to save query result")
		respondError(c, http.StatusInternalServerError, "Failed to save query")
		return
	}

	respondOK(c, toQueryResponse(query), "Query completed")
}

// @Router /cedula-queries/query-async [post]
func (s *Server) queryCedulaAsync(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	req.Cedula = validate.CleanCedula(req.Cedula)
	if err := s.validator.Struct(&req); err != nil {
		respondFail(c, "Cédula must be exactly 11 digits")
		return
	}
	cedula := req.Cedula

	if !s.queriesEnabled() {
		respondFail(c, "Queries are temporarily disabled")
		return
	}

	query := &models.CedulaQuery{
		Cedula:    cedula,
		UserID:    session.UserID,
		QueryDate: time.Now(),
		Cost:      1,
		Status:    models.QueryPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.spendToken(tx, session.UserID); err != nil {
			return err
		}
		return tx.Create(query).Error
	})
	if err != nil {
		respondFail(c, "Insufficient tokens. Buy more to keep querying.")
		return
	}

	task, err := tasks.NewProcessQueryTask(query.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build query task")
		respondError(c, http.StatusInternalServerError, "Failed to enqueue query")
		return
	}

	if _, err := s.asynqClient.Enqueue(task); err != nil {
		s.logger.Error().Err(err).Msg("Failed to enqueue query task")
		respondError(c, http.StatusInternalServerError, "Failed to enqueue query")
		return
	}

	respondOK(c, query.ID, "Query enqueued")
}

// @Router /cedula-queries/can-query [get]
func (s *Server) canQuery(c *gin.Context) {
	session, _ := GetSessionData(c)

	if !s.queriesEnabled() {
		respondOK(c, false, "Queries are temporarily disabled")
		return
	}

	var user models.User
	if err := models.FindByID(s.db, session.UserID, &user); err != nil {
		respondError(c, http.StatusUnauthorized, "User not found")
		return
	}

	respondOK(c, user.Tokens > 0, "")
}

var querySortColumns = map[string]string{
	"queryDate": "query_date",
	"cedula":    "cedula",
	"status":    "status",
	"createdAt": "created_at",
}

// @Router /cedula-queries/history [get]
func (s *Server) queryHistory(c *gin.Context) {
	session, _ := GetSessionData(c)

	page, size := parsePagination(c, 10)

	sortColumn, ok := querySortColumns[c.DefaultQuery("sortBy", "queryDate")]
	if !ok {
		sortColumn = "query_date"
	}
	sortDir := "DESC"
	if c.DefaultQuery("sortDir", "desc") == "asc" {
		sortDir = "ASC"
	}

	scope := s.db.Model(&models.CedulaQuery{}).Where("user_id = ?", session.UserID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load query history")
		return
	}

	var queries []models.CedulaQuery
	err := scope.Order(sortColumn + " " + sortDir).
		Offset(page * size).Limit(size).
		Find(&queries).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load query history")
		return
	}

	respondOK(c, newPage(toQueryResponses(queries), total, page, size), "")
}

// @Router /cedula-queries/{id} [get]
func (s *Server) getQuery(c *gin.Context) {
	session, _ := GetSessionData(c)

	var query models.CedulaQuery
	scope := s.db.Where("id = ?", c.Param("id"))
	if !session.IsAdmin() {
		scope = scope.Where("user_id = ?", session.UserID)
	}
	if err := scope.First(&query).Error; err != nil {
		respondError(c, http.StatusNotFound, "Query not found")
		return
	}

	respondOK(c, toQueryResponse(&query), "")
}

// @Router /cedula-queries/stats [get]
func (s *Server) queryStats(c *gin.Context) {
	session, _ := GetSessionData(c)

	stats, err := s.collectQueryStats(session.UserID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load query stats")
		return
	}

	respondOK(c, stats, "")
}

type queryStatsResponse struct {
	TotalQueries     int64   `json:"totalQueries"`
	CompletedQueries int64   `json:"completedQueries"`
	PendingQueries   int64   `json:"pendingQueries"`
	FailedQueries    int64   `json:"failedQueries"`
	TotalCost        float64 `json:"totalCost"`
}

// collectQueryStats aggregates query counts. An empty userID aggregates
// across all users (admin dashboard).
func (s *Server) collectQueryStats(userID string) (*queryStatsResponse, error) {
	scope := func() *gorm.DB {
		q := s.db.Model(&models.CedulaQuery{})
		if userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		return q
	}

	var stats queryStatsResponse
	if err := scope().Count(&stats.TotalQueries).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", models.QueryCompleted).Count(&stats.CompletedQueries).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", models.QueryPending).Count(&stats.PendingQueries).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", models.QueryFailed).Count(&stats.FailedQueries).Error; err != nil {
		return nil, err
	}

	var totalCost *float64
	if err := scope().Select("SUM(cost)").Scan(&totalCost).Error; err != nil {
		return nil, err
	}
	if totalCost != nil {
		stats.TotalCost = *totalCost
	}

	return &stats, nil
}

// @Router /cedula-queries/recent [get]
func (s *Server) recentQueries(c *gin.Context) {
	session, _ := GetSessionData(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		limit = 5
	}
	limit = min(max(limit, 1), 20)

	var queries []models.CedulaQuery
	err = s.db.Where("user_id = ?", session.UserID).
		Order("query_date DESC").Limit(limit).
		Find(&queries).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load recent queries")
		return
	}

	respondOK(c, toQueryResponses(queries), "")
}

// @Router /cedula-queries/search [get]
func (s *Server) searchQueries(c *gin.Context) {
	session, _ := GetSessionData(c)

	cedula := c.Query("cedula")
	if err := validate.CedulaForSearch(cedula); err != nil {
		respondFail(c, err.Error())
		return
	}

	var queries []models.CedulaQuery
	err := s.db.Where("user_id = ? AND cedula LIKE ?", session.UserID, validate.CleanCedula(cedula)+"%").
		Order("query_date DESC").
		Find(&queries).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Search failed")
		return
	}

	respondOK(c, toQueryResponses(queries), "")
}
