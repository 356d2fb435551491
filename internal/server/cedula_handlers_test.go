package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jce-consulta/cedula-cli/internal/auth"
	"github.com/jce-consulta/cedula-cli/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	require.NoError(t, db.Create(&models.AppSettings{
		SiteName:        "JCE Consulta",
		TokenPrice:      1.99,
		QueriesEnabled:  true,
		PaymentsEnabled: true,
	}).Error)

	return &Server{
		db:        db,
		logger:    zerolog.Nop(),
		validator: newValidator(),
	}
}

func createQueryUser(t *testing.T, db *gorm.DB, tokens int) *models.User {
	t.Helper()

	user := &models.User{
		Email:        "user@example.com",
		PasswordHash: "x",
		Name:         "Test User",
		Role:         models.RoleUser,
		Tokens:       tokens,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func postQuery(t *testing.T, s *Server, user *models.User, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setSession(c, &auth.SessionData{UserID: user.ID, Email: user.Email, Role: user.Role})

	s.queryCedula(c)

	var env apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestQueryCedulaRejectsNonDigits(t *testing.T) {
	s := newTestServer(t)
	user := createQueryUser(t, s.db, 3)

	w, env := postQuery(t, s, user, `{"cedula":"ABCDEFGHIJK"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, env.Success)
	require.Contains(t, env.Message, "11 digits")

	// Rejected input costs nothing and stores nothing
	var stored models.User
	require.NoError(t, s.db.First(&stored, "id = ?", user.ID).Error)
	require.Equal(t, 3, stored.Tokens)

	var queries int64
	require.NoError(t, s.db.Model(&models.CedulaQuery{}).Count(&queries).Error)
	require.Zero(t, queries)
}

func TestQueryCedulaRejectsWrongLength(t *testing.T) {
	s := newTestServer(t)
	user := createQueryUser(t, s.db, 3)

	_, env := postQuery(t, s, user, `{"cedula":"0011234567"}`)
	require.False(t, env.Success)
	require.Contains(t, env.Message, "11 digits")
}

func TestQueryCedulaAcceptsDashedInput(t *testing.T) {
	s := newTestServer(t)
	user := createQueryUser(t, s.db, 3)

	_, env := postQuery(t, s, user, `{"cedula":"001-1234567-8"}`)
	require.True(t, env.Success)

	var query models.CedulaQuery
	require.NoError(t, s.db.First(&query).Error)
	require.Equal(t, "00112345678", query.Cedula)
	require.Equal(t, user.ID, query.UserID)

	var stored models.User
	require.NoError(t, s.db.First(&stored, "id = ?", user.ID).Error)
	require.Equal(t, 2, stored.Tokens)
}

func TestQueryCedulaRequiresTokens(t *testing.T) {
	s := newTestServer(t)
	user := createQueryUser(t, s.db, 0)

	w, env := postQuery(t, s, user, `{"cedula":"00112345678"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, env.Success)
	require.Contains(t, env.Message, "Insufficient tokens")
}
