package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kaira_store/internal/database"
	"github.com/GTDGit/kaira_store/internal/middleware"
	"github.com/GTDGit/kaira_store/internal/repository"
	"github.com/GTDGit/kaira_store/internal/service"
	"github.com/GTDGit/kaira_store/internal/storage"
)

// StorefrontHandler serves the public catalog pages.
type StorefrontHandler struct {
	render  *Renderer
	uploads storage.Store
}

// NewStorefrontHandler constructs a StorefrontHandler.
func NewStorefrontHandler(render *Renderer, uploads storage.Store) *StorefrontHandler {
	return &StorefrontHandler{render: render, uploads: uploads}
}

// Home handles GET /
func (h *StorefrontHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	q, err := middleware.Querier(c)
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	if err := database.EnsureSchema(ctx, q); err != nil {
		h.render.Fail(c, err)
		return
	}

	repo := repository.NewProductRepository(q)
	if err := service.NewSeeder(repo, h.uploads).SeedIfEmpty(ctx); err != nil {
		h.render.Fail(c, err)
		return
	}

	products, err := service.NewCatalogService(repo).ListAll(ctx)
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	h.render.Page(c, http.StatusOK, "index.html", gin.H{
		"Title":    "KAIRA — Store",
		"Products": products,
	})
}

// ProductDetail handles GET /product/:id
func (h *StorefrontHandler) ProductDetail(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.render.NotFound(c)
		return
	}
	q, err := middleware.Querier(c)
	if err != nil {
		h.render.Fail(c, err)
		return
	}

	catalog := service.NewCatalogService(repository.NewProductRepository(q))
	product, err := catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	more, err := catalog.ListRelated(c.Request.Context(), id, service.RelatedLimit)
	if err != nil {
		h.render.Fail(c, err)
		return
	}

	h.render.Page(c, http.StatusOK, "product_detail.html", gin.H{
		"Title":   product.Name,
		"Product": product,
		"More":    more,
	})
}
