// Package web holds the server-rendered pages of the storefront and the
// helpers they call.
package web

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/GTDGit/kaira_store/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// UploadsPrefix is the URL path uploaded images are served under.
const UploadsPrefix = "/static/uploads/"

// Templates parses the embedded page set. Each page is addressed by its file name.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs returns the helpers available to every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"imageSrc":     ImageSrc,
		"price":        FormatPrice,
		"percent":      Percent,
		"maxActivity":  MaxActivity,
		"maxBreakdown": MaxBreakdown,
	}
}

// ImageSrc maps a stored image reference to a src attribute: external URLs
// verbatim, bare filenames under the uploads path, nothing for no image.
func ImageSrc(image string) string {
	switch {
	case image == "":
		return ""
	case models.IsExternalURL(image):
		return image
	default:
		return UploadsPrefix + image
	}
}

func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

// Percent scales n against max to 0..100. A zero max yields 0.
func Percent(n, max int) int {
	if max <= 0 || n <= 0 {
		return 0
	}
	if n >= max {
		return 100
	}
	return n * 100 / max
}

func MaxActivity(days []models.DayCount) int {
	m := 0
	for _, d := range days {
		if d.Count > m {
			m = d.Count
		}
	}
	return m
}

func MaxBreakdown(cats []models.CategoryCount) int {
	m := 0
	for _, c := range cats {
		if c.Count > m {
			m = c.Count
		}
	}
	return m
}
