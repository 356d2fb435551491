package client

import "encoding/json"

// Envelope is the wrapper every API endpoint responds with. The gateway does
// not interpret Success; the typed endpoint wrappers check it and treat
// success=false as a failure even on HTTP 200.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
}

// UserRole is the role of a user in the system
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// UserProfile is the user record returned inside every auth response. It is
// always replaced wholesale, never partially patched.
type UserProfile struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	Tokens    int      `json:"tokens"`
	IsActive  bool     `json:"isActive"`
	CreatedAt string   `json:"createdAt"`
}

// AuthPayload is the data field of login/register/refresh/me responses
type AuthPayload struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         *UserProfile `json:"user"`
}

// RegisterInput is the body of /auth/register
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// QueryStatus is the state of a cédula query
type QueryStatus string

const (
	QueryPending   QueryStatus = "PENDING"
	QueryCompleted QueryStatus = "COMPLETED"
	QueryFailed    QueryStatus = "FAILED"
)

// CedulaResult holds the citizen record of a successful lookup
type CedulaResult struct {
	Nombres         string `json:"nombres"`
	Apellidos       string `json:"apellidos"`
	FechaNacimiento string `json:"fechaNacimiento"`
	LugarNacimiento string `json:"lugarNacimiento"`
	EstadoCivil     string `json:"estadoCivil"`
	Ocupacion       string `json:"ocupacion"`
	Nacionalidad    string `json:"nacionalidad"`
	Sexo            string `json:"sexo"`
	Foto            string `json:"foto,omitempty"`
}

// CedulaQuery is one lookup performed by a user
type CedulaQuery struct {
	ID        string        `json:"id"`
	Cedula    string        `json:"cedula"`
	QueryDate string        `json:"queryDate"`
	UserID    string        `json:"userId"`
	Result    *CedulaResult `json:"result"`
	Cost      int           `json:"cost"`
	Status    QueryStatus   `json:"status"`
}

// QueryStats aggregates a user's query activity
type QueryStats struct {
	TotalQueries     int64   `json:"totalQueries"`
	CompletedQueries int64   `json:"completedQueries"`
	PendingQueries   int64   `json:"pendingQueries"`
	FailedQueries    int64   `json:"failedQueries"`
	TotalCost        float64 `json:"totalCost"`
}

// PaymentStatus is the state of a payment order
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentExpired   PaymentStatus = "EXPIRED"
)

// PaymentOrder is an order to purchase billing tokens
type PaymentOrder struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Tokens       int           `json:"tokens"`
	Amount       float64       `json:"amount"`
	Status       PaymentStatus `json:"status"`
	PaymentURL   string        `json:"paymentUrl"`
	CreatedAt    string        `json:"createdAt"`
	CompletedAt  string        `json:"completedAt,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
}

// PaymentVerification is the result of verifying a payment order
type PaymentVerification struct {
	Verified bool `json:"verified"`
	Tokens   int  `json:"tokens"`
}

// TokenPackage is a purchasable bundle of billing tokens
type TokenPackage struct {
	Tokens  int     `json:"tokens"`
	Price   float64 `json:"price"`
	Popular bool    `json:"popular,omitempty"`
}

// Page is the paginated response shape used by list endpoints
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// UserStats aggregates the user base for the admin dashboard
type UserStats struct {
	TotalUsers             int64 `json:"totalUsers"`
	ActiveUsers            int64 `json:"activeUsers"`
	InactiveUsers          int64 `json:"inactiveUsers"`
	TotalTokensDistributed int64 `json:"totalTokensDistributed"`
}

// PaymentStats aggregates payment activity for the admin dashboard
type PaymentStats struct {
	TotalPayments     int64   `json:"totalPayments"`
	CompletedPayments int64   `json:"completedPayments"`
	PendingPayments   int64   `json:"pendingPayments"`
	FailedPayments    int64   `json:"failedPayments"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	UserStats    UserStats    `json:"userStats"`
	QueryStats   QueryStats   `json:"queryStats"`
	PaymentStats PaymentStats `json:"paymentStats"`
	TokenPrice   float64      `json:"tokenPrice"`
}

// HealthStatus is the admin health-check report
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// CleanupResults reports what an admin system cleanup removed
type CleanupResults struct {
	ExpiredPayments int64 `json:"expiredPayments"`
	StaleQueries    int64 `json:"staleQueries"`
}

// LogEntry is one line of the server log surfaced to admins
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// AppSettings is the public application configuration
type AppSettings struct {
	ID              string  `json:"id,omitempty"`
	SiteName        string  `json:"siteName"`
	SiteDescription string  `json:"siteDescription"`
	TokenPrice      float64 `json:"tokenPrice"`
	QueriesEnabled  bool    `json:"queriesEnabled"`
	PaymentsEnabled bool    `json:"paymentsEnabled"`
	CleanupSchedule string  `json:"cleanupSchedule,omitempty"`
}
