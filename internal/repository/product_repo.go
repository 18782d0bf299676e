package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GTDGit/kaira_store/internal/database"
	"github.com/GTDGit/kaira_store/internal/models"
)

const productColumns = `id, name, category, price, image, description, created_at`

// ProductRepository handles data access for products.
type ProductRepository struct {
	q database.Querier
}

// NewProductRepository creates a new ProductRepository over a storage handle.
func NewProductRepository(q database.Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

// ListNewest returns every product, newest first. Rows sharing a created_at
// are ordered by id descending.
func (r *ProductRepository) ListNewest(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`

	products := []models.Product{}
	if err := r.q.SelectContext(ctx, &products, q); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListByIDDesc returns every product ordered by id descending.
func (r *ProductRepository) ListByIDDesc(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY id DESC`

	products := []models.Product{}
	if err := r.q.SelectContext(ctx, &products, q); err != nil {
		return nil, fmt.Errorf("list products by id: %w", err)
	}
	return products, nil
}

// ListExcluding returns up to limit products other than excludeID, newest first.
func (r *ProductRepository) ListExcluding(ctx context.Context, excludeID int64, limit int) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
        WHERE id <> $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`

	products := []models.Product{}
	if err := r.q.SelectContext(ctx, &products, q, excludeID, limit); err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}
	return products, nil
}

// GetByID returns a single product by id, or sql.ErrNoRows.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1 LIMIT 1`

	var p models.Product
	if err := r.q.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// Create inserts a product and fills in its id and created_at.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	const q = `INSERT INTO products (name, category, price, image, description)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at`

	err := r.q.QueryRowxContext(ctx, q,
		product.Name,
		product.Category,
		product.Price,
		product.Image,
		product.Description,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// CreateBatch inserts all products with a single statement.
func (r *ProductRepository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO products (name, category, price, image, description) VALUES `)
	args := make([]interface{}, 0, len(products)*5)
	for i, p := range products {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, p.Name, p.Category, p.Price, p.Image, p.Description)
	}

	if _, err := r.q.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("create products: %w", err)
	}
	return nil
}

// Update writes the mutable fields of a product. created_at is never touched.
// It returns sql.ErrNoRows when the id does not exist.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	const q = `UPDATE products
              SET name = $1, category = $2, price = $3, image = $4, description = $5
              WHERE id = $6`

	res, err := r.q.ExecContext(ctx, q,
		product.Name,
		product.Category,
		product.Price,
		product.Image,
		product.Description,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete deletes a product by ID. Deleting a missing id is not an error.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM products WHERE id = $1`
	if _, err := r.q.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// Count returns the number of products.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// CountCategories returns the number of distinct category values.
func (r *ProductRepository) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := r.q.GetContext(ctx, &n, `SELECT COUNT(DISTINCT category) FROM products`); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// LatestName returns the name of the most recently created product, or
// sql.ErrNoRows when the table is empty.
func (r *ProductRepository) LatestName(ctx context.Context) (string, error) {
	const q = `SELECT name FROM products ORDER BY created_at DESC, id DESC LIMIT 1`

	var name string
	if err := r.q.GetContext(ctx, &name, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sql.ErrNoRows
		}
		return "", fmt.Errorf("latest product: %w", err)
	}
	return name, nil
}

// CategoryBreakdown returns product counts per category, largest first.
func (r *ProductRepository) CategoryBreakdown(ctx context.Context) ([]models.CategoryCount, error) {
	const q = `SELECT category, COUNT(*) AS count
        FROM products
        GROUP BY category
        ORDER BY count DESC, category ASC`

	rows := []models.CategoryCount{}
	if err := r.q.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	return rows, nil
}

// DailyCount is the number of products created on one UTC day.
type DailyCount struct {
	Day   string `db:"day"` // YYYY-MM-DD
	Count int    `db:"count"`
}

// CountByDaySince groups products created at or after since by UTC calendar day.
func (r *ProductRepository) CountByDaySince(ctx context.Context, since time.Time) ([]DailyCount, error) {
	const q = `SELECT
            TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
            COUNT(*) AS count
        FROM products
        WHERE created_at >= $1
        GROUP BY TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')`

	rows := []DailyCount{}
	if err := r.q.SelectContext(ctx, &rows, q, since); err != nil {
		return nil, fmt.Errorf("count by day: %w", err)
	}
	return rows, nil
}
