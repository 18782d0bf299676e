package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTDGit/kaira_store/internal/models"
	"github.com/GTDGit/kaira_store/internal/repository"
	"github.com/GTDGit/kaira_store/internal/utils"
)

// RelatedLimit is how many other products the detail page shows.
const RelatedLimit = 6

// CatalogService provides the read-only queries behind the public pages.
type CatalogService struct {
	productRepo *repository.ProductRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(productRepo *repository.ProductRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo}
}

// ListAll returns every product, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.ListNewest(ctx)
}

// GetByID returns one product or utils.ErrProductNotFound.
func (s *CatalogService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListRelated returns up to limit products other than excludeID, newest first.
// A non-positive limit falls back to RelatedLimit.
func (s *CatalogService) ListRelated(ctx context.Context, excludeID int64, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = RelatedLimit
	}
	return s.productRepo.ListExcluding(ctx, excludeID, limit)
}

// AdminList returns every product ordered by id, highest first.
func (s *CatalogService) AdminList(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.ListByIDDesc(ctx)
}
