package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/models"
	"github.com/GTDGit/kaira_store/internal/repository"
	"github.com/GTDGit/kaira_store/internal/storage"
	"github.com/GTDGit/kaira_store/internal/utils"
)

// ProductForm carries the raw admin form fields. Price is kept as text so
// that parsing errors surface as validation errors. The binding tags reject
// absent fields; whitespace-only values and the price rule are checked by
// the service.
type ProductForm struct {
	Name        string `form:"name" binding:"required"`
	Category    string `form:"category" binding:"required"`
	Price       string `form:"price" binding:"required"`
	Description string `form:"description" binding:"required"`
	ImageURL    string `form:"image_url"`
}

// ImageUpload is an uploaded image file as received from the client.
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// UploadFromFileHeader adapts a multipart file; a nil header yields nil.
func UploadFromFileHeader(fh *multipart.FileHeader) *ImageUpload {
	if fh == nil {
		return nil
	}
	return &ImageUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// validated is a ProductForm after trimming and parsing.
type validated struct {
	name        string
	category    string
	price       float64
	description string
	imageURL    string
}

// validate trims the form and checks required fields and price.
func (f *ProductForm) validate() (*validated, error) {
	v := &validated{
		name:        strings.TrimSpace(f.Name),
		category:    strings.TrimSpace(f.Category),
		description: strings.TrimSpace(f.Description),
		imageURL:    strings.TrimSpace(f.ImageURL),
	}
	if v.name == "" {
		return nil, utils.NewValidationError("name", "Name is required.")
	}
	if v.category == "" {
		return nil, utils.NewValidationError("category", "Category is required.")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, utils.NewValidationError("price", "Price must be a number.")
	}
	if price < 0 {
		return nil, utils.NewValidationError("price", "Price cannot be negative.")
	}
	v.price = price
	if v.description == "" {
		return nil, utils.NewValidationError("description", "Description is required.")
	}
	return v, nil
}

// ProductAdminService handles product create, update and delete for the admin area.
type ProductAdminService struct {
	productRepo *repository.ProductRepository
	uploads     storage.Store
}

// NewProductAdminService constructs a ProductAdminService.
func NewProductAdminService(productRepo *repository.ProductRepository, uploads storage.Store) *ProductAdminService {
	return &ProductAdminService{productRepo: productRepo, uploads: uploads}
}

// Create validates the form, inserts the product and then stores the
// uploaded image, if any. It returns the new product id.
func (s *ProductAdminService) Create(ctx context.Context, form *ProductForm, upload *ImageUpload) (int64, error) {
	v, err := form.validate()
	if err != nil {
		return 0, err
	}

	image, pending, err := planImage(v.imageURL, upload, "")
	if err != nil {
		return 0, err
	}

	product := &models.Product{
		Name:        v.name,
		Category:    v.category,
		Price:       v.price,
		Image:       image,
		Description: v.description,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return 0, err
	}

	if err := s.store(ctx, image, pending); err != nil {
		if delErr := s.productRepo.Delete(ctx, product.ID); delErr != nil {
			log.Error().Err(delErr).Int64("product_id", product.ID).Msg("Failed to remove product after upload error")
		}
		return 0, err
	}
	log.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	return product.ID, nil
}

// Update validates the form and rewrites the product. Without a new URL or
// upload the stored image is kept. A new upload is written only after the
// row update succeeded; if writing it fails the previous row is restored.
func (s *ProductAdminService) Update(ctx context.Context, id int64, form *ProductForm, upload *ImageUpload) (*models.Product, error) {
	v, err := form.validate()
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	previous := *product

	image, pending, err := planImage(v.imageURL, upload, product.Image)
	if err != nil {
		return nil, err
	}

	product.Name = v.name
	product.Category = v.category
	product.Price = v.price
	product.Description = v.description
	product.Image = image

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	if err := s.store(ctx, image, pending); err != nil {
		if restoreErr := s.productRepo.Update(ctx, &previous); restoreErr != nil {
			log.Error().Err(restoreErr).Int64("product_id", id).Msg("Failed to restore product after upload error")
		}
		return nil, err
	}
	log.Info().Int64("product_id", product.ID).Msg("Product updated")
	return product, nil
}

// Delete removes the product if it exists.
func (s *ProductAdminService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}

// planImage picks the image reference: an explicit URL, then a new upload,
// then current. A URL equal to current counts as not supplied, so an upload
// still replaces an image whose URL was sent back unchanged. When an upload
// wins, it is returned as pending and must be written under the returned name.
func planImage(imageURL string, upload *ImageUpload, current string) (string, *ImageUpload, error) {
	if imageURL != "" && imageURL != current {
		return imageURL, nil, nil
	}
	if upload == nil || upload.Filename == "" {
		return current, nil, nil
	}

	name := storage.SanitizeFilename(upload.Filename)
	if name == "" {
		return "", nil, utils.NewValidationError("image", "Image filename is not usable.")
	}
	return name, upload, nil
}

// store writes a pending upload under name. A nil upload is a no-op.
func (s *ProductAdminService) store(ctx context.Context, name string, upload *ImageUpload) error {
	if upload == nil {
		return nil
	}
	f, err := upload.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	if err := s.uploads.Save(ctx, name, f, upload.Size, upload.ContentType); err != nil {
		return fmt.Errorf("save upload %s: %w", name, err)
	}
	return nil
}
