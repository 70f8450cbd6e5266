package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// salesReport handles GET /api/v*/reports/sales. Guarded by the
// SeniorAnalytics composite policy.
func (s *Server) salesReport(c *gin.Context) {
	books := s.store.ListBooks()

	categoryNames := make(map[string]string)
	for _, cat := range s.store.ListCategories() {
		categoryNames[cat.ID] = cat.Name
	}
	authorNames := make(map[string]string)
	for _, a := range s.store.ListAuthors() {
		authorNames[a.ID] = a.Name
	}

	report := SalesReport{
		TotalTitles:    len(books),
		ByCategory:     make(map[string]int),
		PricesByAuthor: make(map[string]float64),
		GeneratedAt:    time.Now().UTC(),
	}

	priceSums := make(map[string]float64)
	titleCounts := make(map[string]int)
	for _, b := range books {
		report.TotalStock += b.Stock
		report.InventoryValue += b.Price * float64(b.Stock)

		category := categoryNames[b.CategoryID]
		if category == "" {
			category = b.CategoryID
		}
		report.ByCategory[category]++

		author := authorNames[b.AuthorID]
		if author == "" {
			author = b.AuthorID
		}
		priceSums[author] += b.Price
		titleCounts[author]++
	}
	for author, sum := range priceSums {
		report.PricesByAuthor[author] = sum / float64(titleCounts[author])
	}

	c.JSON(http.StatusOK, report)
}

// regionalReport handles GET /api/v*/reports/regional. Guarded by the
// NorthAmericaSales policy, so the caller's region is already vetted.
func (s *Server) regionalReport(c *gin.Context) {
	claims := claimSetFrom(c)
	region, _ := claims.Region()

	books := s.store.ListBooks()
	report := RegionalReport{
		Region:      region,
		Subject:     claims.Subject(),
		TotalTitles: len(books),
		OutOfStock:  []string{},
		GeneratedAt: time.Now().UTC(),
	}
	for _, b := range books {
		report.TotalStock += b.Stock
		if b.Stock == 0 {
			report.OutOfStock = append(report.OutOfStock, b.Title)
		}
	}

	c.JSON(http.StatusOK, report)
}

// systemStatus handles GET /api/v*/admin/system. Guarded by the
// SystemAdministrator composite policy.
func (s *Server) systemStatus(c *gin.Context) {
	books, authors, categories := s.store.Counts()

	c.JSON(http.StatusOK, SystemStatus{
		Version:  s.config.Version,
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
		Policies: s.registry.Names(),
		Users:    s.users.Usernames(),
		Catalog: CatalogCounts{
			Books:      books,
			Authors:    authors,
			Categories: categories,
		},
		Timestamp: time.Now().UTC(),
	})
}

// configView handles GET /api/v*/admin/config. Guarded by the
// ITDepartment policy. Secrets never appear here.
func (s *Server) configView(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigView{
		Addr:         s.config.Addr,
		Version:      s.config.Version,
		CORSEnabled:  s.config.EnableCORS,
		CORSOrigins:  s.config.CORSOrigins,
		ReadTimeout:  s.config.ReadTimeout.String(),
		WriteTimeout: s.config.WriteTimeout.String(),
		IdleTimeout:  s.config.IdleTimeout.String(),
	})
}
