package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Role values stored on User
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an account that queries cédulas and buys tokens
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:USER"`
	Tokens       int       `json:"tokens" gorm:"not null;default:0"`
	IsActive     bool      `json:"isActive" gorm:"not null;default:true"`
	UpdatedAt    time.Time `json:"-" gorm:"autoUpdateTime"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RefreshToken is a long-lived opaque token exchangeable for a new token pair.
// Tokens are rotated on every refresh; a used token is revoked immediately.
type RefreshToken struct {
	BaseModel
	Token     string    `json:"-" gorm:"unique;not null"`
	UserID    string    `json:"userId" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	Revoked   bool      `json:"-" gorm:"not null;default:false"`

	// Relationships
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsValid reports whether the token can still be exchanged
func (t *RefreshToken) IsValid() bool {
	return !t.Revoked && time.Now().Before(t.ExpiresAt)
}

// Query status values stored on CedulaQuery
const (
	QueryPending   = "PENDING"
	QueryCompleted = "COMPLETED"
	QueryFailed    = "FAILED"
)

// CedulaQuery records one lookup performed by a user. Result holds the
// citizen record as JSON once the lookup completes.
type CedulaQuery struct {
	BaseModel
	Cedula    string    `json:"cedula" gorm:"not null;index"`
	UserID    string    `json:"userId" gorm:"not null;index"`
	QueryDate time.Time `json:"queryDate" gorm:"not null"`
	Result    []byte    `json:"-" gorm:"type:text"`
	Cost      int       `json:"cost" gorm:"not null;default:1"`
	Status    string    `json:"status" gorm:"not null;default:PENDING"`

	// Relationships
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Payment status values stored on PaymentOrder
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentExpired   = "EXPIRED"
)

// PaymentOrder is an order to purchase billing tokens
type PaymentOrder struct {
	BaseModel
	UserID       string     `json:"userId" gorm:"not null;index"`
	Tokens       int        `json:"tokens" gorm:"not null"`
	Amount       float64    `json:"amount" gorm:"not null"`
	Status       string     `json:"status" gorm:"not null;default:PENDING"`
	PaymentURL   string     `json:"paymentUrl"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`

	// Relationships
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// AppSettings is the global application configuration.
// This is a singleton model (only one row should exist).
type AppSettings struct {
	BaseModel
	SiteName        string  `json:"siteName" gorm:"not null;default:'JCE Consulta'"`
	SiteDescription string  `json:"siteDescription"`
	TokenPrice      float64 `json:"tokenPrice" gorm:"not null;default:1.99"`
	QueriesEnabled  bool    `json:"queriesEnabled" gorm:"not null;default:true"`
	PaymentsEnabled bool    `json:"paymentsEnabled" gorm:"not null;default:true"`
	CleanupSchedule string  `json:"cleanupSchedule" gorm:"default:'0 * * * *'"`

	// Auth configuration
	JWTSecret string `json:"-" gorm:"type:varchar(64)"` // Auto-generated on first start (64 hex chars)
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&User{}, &RefreshToken{}, &CedulaQuery{}, &PaymentOrder{}, &AppSettings{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
