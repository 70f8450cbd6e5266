package api

import (
	"time"

	"github.com/bookvault/go-api/internal/store"
)

// ErrorResponse is the error body for every non-2xx response. Reasons is
// populated only on authorization denials.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Policy  string   `json:"policy,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
}

// TokenRequest is the password-grant body for POST /auth/token.
type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MeResponse is the caller's validated claim profile.
type MeResponse struct {
	Subject       string            `json:"subject"`
	Roles         []string          `json:"roles"`
	Permissions   []string          `json:"permissions"`
	SecurityLevel int               `json:"security_level"`
	Department    string            `json:"department,omitempty"`
	Region        string            `json:"region,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// BookRequest is the create/update body for catalog books.
type BookRequest struct {
	Title         string  `json:"title" binding:"required"`
	AuthorID      string  `json:"author_id" binding:"required"`
	CategoryID    string  `json:"category_id" binding:"required"`
	ISBN          string  `json:"isbn"`
	Price         float64 `json:"price" binding:"gte=0"`
	Stock         int     `json:"stock" binding:"gte=0"`
	PublishedYear int     `json:"published_year"`
}

// AuthorRequest is the create body for authors.
type AuthorRequest struct {
	Name    string `json:"name" binding:"required"`
	Country string `json:"country"`
}

// PageMeta describes one page of a v2 listing.
type PageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// PagedBooks is the v2 book listing envelope.
type PagedBooks struct {
	Data []store.Book `json:"data"`
	Meta PageMeta     `json:"meta"`
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CatalogCounts reports store entity counts.
type CatalogCounts struct {
	Books      int `json:"books"`
	Authors    int `json:"authors"`
	Categories int `json:"categories"`
}

// ReadyResponse is the /readyz body.
type ReadyResponse struct {
	Status   string        `json:"status"`
	Policies int           `json:"policies"`
	Catalog  CatalogCounts `json:"catalog"`
}

// SalesReport summarizes the catalog for analytics users.
type SalesReport struct {
	TotalTitles    int                `json:"total_titles"`
	TotalStock     int                `json:"total_stock"`
	InventoryValue float64            `json:"inventory_value"`
	ByCategory     map[string]int     `json:"by_category"`
	PricesByAuthor map[string]float64 `json:"prices_by_author"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// RegionalReport is the region-scoped sales view.
type RegionalReport struct {
	Region      string    `json:"region"`
	Subject     string    `json:"subject"`
	TotalTitles int       `json:"total_titles"`
	TotalStock  int       `json:"total_stock"`
	OutOfStock  []string  `json:"out_of_stock"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SystemStatus is the administrator system view.
type SystemStatus struct {
	Version   string        `json:"version"`
	Uptime    string        `json:"uptime"`
	Policies  []string      `json:"policies"`
	Users     []string      `json:"users"`
	Catalog   CatalogCounts `json:"catalog"`
	Timestamp time.Time     `json:"timestamp"`
}

// ConfigView is the redacted server configuration for IT staff.
type ConfigView struct {
	Addr         string   `json:"addr"`
	Version      string   `json:"version"`
	CORSEnabled  bool     `json:"cors_enabled"`
	CORSOrigins  []string `json:"cors_origins,omitempty"`
	ReadTimeout  string   `json:"read_timeout"`
	WriteTimeout string   `json:"write_timeout"`
	IdleTimeout  string   `json:"idle_timeout"`
}
