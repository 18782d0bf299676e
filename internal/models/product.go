package models

import (
	"strings"
	"time"
)

// Product represents a catalog item shown on the storefront.
// Image holds an absolute URL, an uploaded filename, or "" for no image.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Price       float64   `db:"price" json:"price"`
	Image       string    `db:"image" json:"image"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// HasExternalImage reports whether Image is an absolute http(s) URL rather
// than the name of an uploaded file.
func (p *Product) HasExternalImage() bool {
	return IsExternalURL(p.Image)
}

// IsExternalURL reports whether s points outside the upload store.
func IsExternalURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
