package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/models"
	"github.com/GTDGit/kaira_store/internal/repository"
	"github.com/GTDGit/kaira_store/internal/storage"
)

// SampleImage is the upload the fallback product uses when it is present.
const SampleImage = "sample.jpg"

// DemoProducts is the catalog inserted into an empty store, in insertion order.
var DemoProducts = []models.Product{
	{Name: "Air Flex Runner", Category: "Sneakers", Price: 89.0, Image: "https://images.unsplash.com/photo-1519741497674-611481863552?q=80&w=1080&auto=format&fit=crop", Description: "Lightweight running shoe with breathable mesh upper."},
	{Name: "Urban Street Pro", Category: "Sneakers", Price: 119.0, Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?q=80&w=1080&auto=format&fit=crop", Description: "Premium everyday sneaker with cushioned midsole."},
	{Name: "TrailMaster X", Category: "Trail", Price: 139.0, Image: "https://images.unsplash.com/photo-1608231387042-66d1773070a5?q=80&w=1080&auto=format&fit=crop", Description: "Rugged outsole for off-road grip and stability."},
	{Name: "Court Classic 2", Category: "Tennis", Price: 99.0, Image: "https://images.unsplash.com/photo-1525966222134-fcfa99b8ae77?q=80&w=1080&auto=format&fit=crop", Description: "Heritage court silhouette with modern comfort."},
	{Name: "Studio Flow", Category: "Training", Price: 109.0, Image: "https://images.unsplash.com/photo-1543508282-6319a3e2621f?q=80&w=1080&auto=format&fit=crop", Description: "Versatile trainer for gym and HIIT sessions."},
	{Name: "All-Day Comfort", Category: "Casual", Price: 79.0, Image: "https://images.unsplash.com/photo-1526178611292-66f7e0837fb3?q=80&w=1080&auto=format&fit=crop", Description: "Memory foam insole and flexible outsole."},
	{Name: "Marathon Elite", Category: "Running", Price: 159.0, Image: "https://images.unsplash.com/photo-1519744792095-2f2205e87b6f?q=80&w=1080&auto=format&fit=crop", Description: "Carbon plate propulsion and responsive foam."},
	{Name: "Heritage High", Category: "Lifestyle", Price: 129.0, Image: "https://images.unsplash.com/photo-1519741497674-611481863552?q=80&w=1080&auto=format&fit=crop", Description: "Classic high-top with durable leather overlays."},
	{Name: "Coast Slide", Category: "Sandals", Price: 49.0, Image: "https://images.unsplash.com/photo-1608231387042-66d1773070a5?q=80&w=1080&auto=format&fit=crop", Description: "Comfort slide with contoured footbed."},
	{Name: "City Runner Knit", Category: "Running", Price: 99.0, Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?q=80&w=1080&auto=format&fit=crop", Description: "Sock-fit knit upper and grippy outsole."},
}

// FallbackProduct is inserted when the store is still empty after the bulk seed.
var FallbackProduct = models.Product{
	Name:        "Soft Leather Jacket",
	Category:    "Outerwear",
	Price:       129.00,
	Description: "A minimalist, soft-touch leather jacket designed for everyday wear.",
}

// Seeder fills an empty product table with demonstration data.
type Seeder struct {
	productRepo *repository.ProductRepository
	uploads     storage.Store
}

// NewSeeder constructs a Seeder. uploads is only consulted for SampleImage.
func NewSeeder(productRepo *repository.ProductRepository, uploads storage.Store) *Seeder {
	return &Seeder{productRepo: productRepo, uploads: uploads}
}

// SeedIfEmpty inserts DemoProducts when the table has no rows, then inserts
// FallbackProduct if it is somehow still empty. Both steps are gated on an
// empty table, so repeated calls are no-ops once any product exists.
// Concurrent first calls may both seed; that only duplicates demo rows.
func (s *Seeder) SeedIfEmpty(ctx context.Context) error {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		if err := s.productRepo.CreateBatch(ctx, DemoProducts); err != nil {
			return err
		}
		log.Info().Int("count", len(DemoProducts)).Msg("seeded demo products")
	}

	count, err = s.productRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	fallback := FallbackProduct
	if s.uploads != nil && s.uploads.Exists(ctx, SampleImage) {
		fallback.Image = SampleImage
	}
	if err := s.productRepo.Create(ctx, &fallback); err != nil {
		return err
	}
	log.Warn().Int64("id", fallback.ID).Msg("demo seed left the store empty, inserted fallback product")
	return nil
}
