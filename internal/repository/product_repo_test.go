package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kaira_store/internal/models"
)

var productCols = []string{"id", "name", "category", "price", "image", "description", "created_at"}

func newMockRepo(t *testing.T) (*ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProductRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestListNewestOrdersByCreatedAtThenID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(2, "City Runner Knit", "Running", 99.0, "", "Knit", now).
			AddRow(1, "Air Flex Runner", "Sneakers", 89.0, "", "Mesh", now))

	products, err := repo.ListNewest(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "City Runner Knit", products[0].Name)
	assert.Equal(t, int64(1), products[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNewestEmptyTable(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM products").WillReturnRows(sqlmock.NewRows(productCols))

	products, err := repo.ListNewest(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListExcludingPassesIDAndLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id <> $1")).
		WithArgs(int64(3), 6).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(4, "Coast Slide", "Sandals", 49.0, "", "Slide", time.Now()))

	products, err := repo.ListExcluding(context.Background(), 3, 6)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).WithArgs(int64(42)).WillReturnRows(sqlmock.NewRows(productCols))

	p, err := repo.GetByID(context.Background(), 42)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateReturnsIDAndCreatedAt(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (name, category, price, image, description)")).
		WithArgs("Shoe", "Running", 10.5, "", "Nice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, created))

	p := &models.Product{Name: "Shoe", Category: "Running", Price: 10.5, Description: "Nice"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(11), p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchBuildsOneStatement(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")).
		WithArgs("A", "X", 1.0, "", "a", "B", "Y", 2.0, "b.jpg", "b").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.CreateBatch(context.Background(), []models.Product{
		{Name: "A", Category: "X", Price: 1, Description: "a"},
		{Name: "B", Category: "Y", Price: 2, Image: "b.jpg", Description: "b"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Product{ID: 9, Name: "n"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateDoesNotWriteCreatedAt(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`SET name = \$1, category = \$2, price = \$3, image = \$4, description = \$5\s+WHERE id = \$6`).
		WithArgs("n", "c", 3.0, "img.png", "d", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Product{ID: 5, Name: "n", Category: "c", Price: 3, Image: "img.png", Description: "d"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).WithArgs(int64(77)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 77))
}

func TestLatestNameEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM products")).WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err := repo.LatestName(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCountByDaySince(t *testing.T) {
	repo, mock := newMockRepo(t)
	since := time.Date(2026, 9, 26, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE created_at >= $1")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}).AddRow("2026-10-16", 3))

	rows, err := repo.CountByDaySince(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, []DailyCount{{Day: "2026-10-16", Count: 3}}, rows)
}
